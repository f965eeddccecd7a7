package rules

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/domain"
)

func raci(id, role string, r domain.Responsibility) domain.RACIEntry {
	return domain.RACIEntry{ID: id, EntityType: domain.KindTask, EntityID: "t1", Role: role, Responsibility: r}
}

func TestCheckAccountableRejectsSecondRole(t *testing.T) {
	entries := []domain.RACIEntry{raci("1", "PM", domain.Accountable)}
	err := CheckAccountable(entries, raci("2", "Sponsor", domain.Accountable))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	var ve domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "PM", ve.HeldBy)
}

func TestCheckAccountableAllowsSelfAndOtherEntities(t *testing.T) {
	entries := []domain.RACIEntry{raci("1", "PM", domain.Accountable)}
	assert.NoError(t, CheckAccountable(entries, raci("1", "PM", domain.Accountable)))
	other := raci("2", "Sponsor", domain.Accountable)
	other.EntityID = "t2"
	assert.NoError(t, CheckAccountable(entries, other))
	assert.NoError(t, CheckAccountable(entries, raci("3", "Dev", domain.Responsible)))
}

func TestCheckRoleUnique(t *testing.T) {
	entries := []domain.RACIEntry{raci("1", "PM", domain.Consulted)}
	assert.Error(t, CheckRoleUnique(entries, raci("2", "PM", domain.Informed)))
	assert.NoError(t, CheckRoleUnique(entries, raci("1", "PM", domain.Informed)))
}

func TestFindViolationsReportsWithoutFixing(t *testing.T) {
	entries := []domain.RACIEntry{
		raci("1", "PM", domain.Accountable),
		raci("2", "Sponsor", domain.Accountable),
		raci("3", "Dev", domain.Responsible),
	}
	got := FindViolations(entries)
	require.Len(t, got, 1)
	assert.Equal(t, Violation{EntityType: domain.KindTask, EntityID: "t1", ConflictingRoles: []string{"PM", "Sponsor"}}, got[0])
	assert.Len(t, entries, 3)
	assert.Empty(t, FindViolations(entries[:1]))
}

func TestRenumberPhases(t *testing.T) {
	in := []domain.Phase{{ID: "a", Order: 1}, {ID: "c", Order: 3}, {ID: "e", Order: 7}}
	out := RenumberPhases(in)
	require.NoError(t, CheckPhaseOrder(out))
	assert.Equal(t, []int{1, 2, 3}, []int{out[0].Order, out[1].Order, out[2].Order})
	assert.Equal(t, 7, in[2].Order, "input must not be modified")
	assert.Error(t, CheckPhaseOrder(in))
}

func TestOrderPhasesFollowsOrderField(t *testing.T) {
	in := []domain.Phase{{ID: "a", Order: 2}, {ID: "b", Order: 1}, {ID: "x"}, {ID: "c", Order: 5}}
	out := OrderPhases(in)
	var ids []string
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"b", "a", "c", "x"}, ids)
	require.NoError(t, CheckPhaseOrder(out))
	assert.Equal(t, "a", in[0].ID, "input must not be modified")
}

func TestCheckSameIDs(t *testing.T) {
	existing := []string{"a", "b", "c"}
	assert.NoError(t, CheckSameIDs(domain.KindPhase, existing, []string{"c", "a", "b"}))
	assert.Error(t, CheckSameIDs(domain.KindPhase, existing, []string{"a", "b"}))
	assert.Error(t, CheckSameIDs(domain.KindPhase, existing, []string{"a", "b", "x"}))
	assert.Error(t, CheckSameIDs(domain.KindPhase, existing, []string{"a", "a", "b"}))
}

func TestCheckWBS(t *testing.T) {
	good := []domain.WBSNode{
		{ID: "r", Code: "1", Level: 0, Children: []string{"c"}},
		{ID: "c", Code: "1.1", Level: 1, ParentID: "r"},
	}
	assert.Empty(t, CheckWBS(good))

	bad := []domain.WBSNode{
		{ID: "r", Level: 0, Children: []string{"ghost"}},
		{ID: "c", Level: 3, ParentID: "r"},
		{ID: "o", Level: 1, ParentID: "missing"},
	}
	issues := CheckWBS(bad)
	assert.Len(t, issues, 4)
}

func TestEnsureNoCycle(t *testing.T) {
	nodes := []domain.WBSNode{
		{ID: "a", Children: []string{"b"}},
		{ID: "b", ParentID: "a", Level: 1, Children: []string{"c"}},
		{ID: "c", ParentID: "b", Level: 2},
	}
	assert.ErrorIs(t, EnsureNoCycle(nodes, "c", "a"), ErrWBSCycle)
	assert.ErrorIs(t, EnsureNoCycle(nodes, "a", "a"), ErrWBSCycle)
	assert.NoError(t, EnsureNoCycle(nodes, "a", "c"))
	assert.Equal(t, []string{"a", "b", "c"}, Subtree(nodes, "a"))
}

func TestAuditFlagsStaleRiskScore(t *testing.T) {
	d := domain.ProjectData{Risks: []domain.Risk{{ID: "r1", Probability: domain.ProbabilityHigh, Impact: domain.ImpactLow, Score: 12}}}
	issues := Audit(d)
	require.Len(t, issues, 1)
	assert.Equal(t, domain.KindRisk, issues[0].Entity)
}
