package templates_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planline/internal/domain"
	"planline/internal/rules"
	"planline/internal/templates"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("phase-%d", n)
	}
}

func TestGenerateEveryMode(t *testing.T) {
	for _, mode := range []domain.ProjectMode{domain.ModeWaterfall, domain.ModeAgile, domain.ModeHybrid} {
		t.Run(string(mode), func(t *testing.T) {
			d, err := templates.Generate(mode, counter())
			require.NoError(t, err)
			require.NotEmpty(t, d.Phases)
			assert.NoError(t, rules.CheckPhaseOrder(d.Phases))
			assert.Equal(t, "phase-1", d.Phases[0].ID)
			assert.NotNil(t, d.Tasks)
			assert.Empty(t, rules.Audit(d))
		})
	}
}

func TestWaterfallPhaseSequence(t *testing.T) {
	names, err := templates.PhaseNames(domain.ModeWaterfall)
	require.NoError(t, err)
	assert.Equal(t, []string{"Initiation", "Planning", "Analysis", "Design", "Development", "Testing", "Deployment", "Closure"}, names)
}

func TestGenerateUnknownMode(t *testing.T) {
	_, err := templates.Generate("kanban", counter())
	require.ErrorIs(t, err, domain.ErrValidation)
}
