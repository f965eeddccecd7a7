package rules

import (
	"fmt"
	"slices"

	"planline/internal/domain"
)

// RenumberPhases returns a copy of phases with Order set to 1..N following the
// slice sequence.
func RenumberPhases(phases []domain.Phase) []domain.Phase {
	out := make([]domain.Phase, len(phases))
	for i, p := range phases {
		p.Order = i + 1
		out[i] = p
	}
	return out
}

// OrderPhases returns a copy of phases sorted by their Order value and renumbered
// 1..N, keeping slice sequence between equal orders. Phases without a positive
// order go last.
func OrderPhases(phases []domain.Phase) []domain.Phase {
	out := slices.Clone(phases)
	slices.SortStableFunc(out, func(a, b domain.Phase) int {
		switch {
		case a.Order <= 0 && b.Order <= 0:
			return 0
		case a.Order <= 0:
			return 1
		case b.Order <= 0:
			return -1
		}
		return a.Order - b.Order
	})
	return RenumberPhases(out)
}

// CheckPhaseOrder verifies the orders are exactly 1..N without duplicates.
func CheckPhaseOrder(phases []domain.Phase) error {
	seen := make([]bool, len(phases)+1)
	for _, p := range phases {
		if p.Order < 1 || p.Order > len(phases) {
			return domain.Invalid(domain.KindPhase, "order", fmt.Sprintf("phase %s has order %d outside 1..%d", p.ID, p.Order, len(phases)))
		}
		if seen[p.Order] {
			return domain.Invalid(domain.KindPhase, "order", fmt.Sprintf("order %d used twice", p.Order))
		}
		seen[p.Order] = true
	}
	return nil
}

// CheckSameIDs verifies ids is a permutation of the existing ids.
func CheckSameIDs(kind domain.EntityKind, existing, ids []string) error {
	if len(existing) != len(ids) {
		return domain.Invalid(kind, "order", fmt.Sprintf("expected %d ids, got %d", len(existing), len(ids)))
	}
	want := make(map[string]bool, len(existing))
	for _, id := range existing {
		want[id] = true
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !want[id] {
			return domain.Invalid(kind, "order", fmt.Sprintf("unknown id %s", id))
		}
		if seen[id] {
			return domain.Invalid(kind, "order", fmt.Sprintf("id %s listed twice", id))
		}
		seen[id] = true
	}
	return nil
}
