package adoption_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/adoption"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func validAdoption() *adoption.Adoption {
	return &adoption.Adoption{
		ID:              1,
		CustomerID:      1,
		FrameworkID:     2,
		StartDate:       values.MustParseDate("2022-05-01"),
		CompletionDate:  values.MustParseDate("2022-11-01"),
		Status:          adoption.StatusCompleted,
		AuditScore:      82,
		HoursSaved:      800,
		AutomationLevel: 65,
	}
}

func TestAdoption_Validate(t *testing.T) {
	signup := values.MustParseDate("2022-03-15")

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validAdoption().Validate(signup))
	})

	t.Run("start before signup", func(t *testing.T) {
		a := validAdoption()
		a.StartDate = values.MustParseDate("2022-01-01")
		err := a.Validate(signup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "precedes customer signup")
	})

	t.Run("completion before start", func(t *testing.T) {
		a := validAdoption()
		a.CompletionDate = values.MustParseDate("2022-04-01")
		err := a.Validate(signup)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "precedes start")
	})

	t.Run("missing framework reference", func(t *testing.T) {
		a := validAdoption()
		a.FrameworkID = 0
		require.Error(t, a.Validate(signup))
	})

	t.Run("invalid status", func(t *testing.T) {
		a := validAdoption()
		a.Status = adoption.Status("abandoned")
		require.Error(t, a.Validate(signup))
	})

	t.Run("audit score out of range", func(t *testing.T) {
		a := validAdoption()
		a.AuditScore = 101
		require.Error(t, a.Validate(signup))
	})

	t.Run("automation out of range", func(t *testing.T) {
		a := validAdoption()
		a.AutomationLevel = -1
		require.Error(t, a.Validate(signup))
	})
}

func TestAdoption_DurationDays(t *testing.T) {
	a := validAdoption()
	assert.Equal(t, 184, a.DurationDays())
}

func TestStatus_Valid(t *testing.T) {
	assert.True(t, adoption.StatusActive.Valid())
	assert.True(t, adoption.StatusCompleted.Valid())
	assert.True(t, adoption.StatusCertified.Valid())
	assert.False(t, adoption.Status("paused").Valid())
}
