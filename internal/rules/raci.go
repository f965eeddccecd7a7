// Package rules holds the invariants that span more than one record:
// RACI single-accountable, WBS reference integrity and phase order contiguity.
package rules

import (
	"fmt"

	"planline/internal/domain"
)

// CheckAccountable rejects candidate when it would give its entity a second
// Accountable role. Entries whose id matches candidate are ignored so the check
// works for updates as well as inserts.
func CheckAccountable(entries []domain.RACIEntry, candidate domain.RACIEntry) error {
	if candidate.Responsibility != domain.Accountable {
		return nil
	}
	for _, e := range entries {
		if e.ID == candidate.ID || !sameEntity(e, candidate) {
			continue
		}
		if e.Responsibility == domain.Accountable && e.Role != candidate.Role {
			return domain.ValidationError{
				Entity: domain.KindRACIEntry,
				Field:  "responsibility",
				Reason: fmt.Sprintf("%s %s already has Accountable role %q", candidate.EntityType, candidate.EntityID, e.Role),
				HeldBy: e.Role,
			}
		}
	}
	return nil
}

// CheckRoleUnique rejects a second entry for the same role on the same entity.
func CheckRoleUnique(entries []domain.RACIEntry, candidate domain.RACIEntry) error {
	for _, e := range entries {
		if e.ID != candidate.ID && sameEntity(e, candidate) && e.Role == candidate.Role {
			return domain.Invalid(domain.KindRACIEntry, "role",
				fmt.Sprintf("role %q already assigned on %s %s", candidate.Role, candidate.EntityType, candidate.EntityID))
		}
	}
	return nil
}

// Violation describes an entity with more than one Accountable role.
type Violation struct {
	EntityType       domain.EntityKind `json:"entityType"`
	EntityID         string            `json:"entityId"`
	ConflictingRoles []string          `json:"conflictingRoles"`
}

// FindViolations scans for entities with plural Accountables, in order of first
// appearance. Nothing is repaired.
func FindViolations(entries []domain.RACIEntry) []Violation {
	type key struct {
		kind domain.EntityKind
		id   string
	}
	roles := map[key][]string{}
	var order []key
	for _, e := range entries {
		if e.Responsibility != domain.Accountable {
			continue
		}
		k := key{e.EntityType, e.EntityID}
		if _, seen := roles[k]; !seen {
			order = append(order, k)
		}
		roles[k] = append(roles[k], e.Role)
	}
	var out []Violation
	for _, k := range order {
		if len(roles[k]) > 1 {
			out = append(out, Violation{EntityType: k.kind, EntityID: k.id, ConflictingRoles: roles[k]})
		}
	}
	return out
}

func sameEntity(a, b domain.RACIEntry) bool {
	return a.EntityType == b.EntityType && a.EntityID == b.EntityID
}
