package activity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phantomsec/compliance-dataset-generator/internal/domain/activity"
	"github.com/phantomsec/compliance-dataset-generator/internal/domain/values"
)

func validActivity() *activity.Activity {
	return &activity.Activity{
		ID:              1,
		CustomerID:      4,
		FrameworkID:     2,
		AdoptionID:      9,
		ActivityDate:    values.MustParseDate("2022-07-10"),
		Type:            activity.TypeControlCheck,
		ControlCategory: activity.ControlAccessControl,
		DurationMinutes: 45,
		RiskLevel:       activity.RiskLow,
	}
}

func TestActivity_Validate(t *testing.T) {
	start := values.MustParseDate("2022-05-01")
	completion := values.MustParseDate("2022-11-01")
	const grace = 90

	t.Run("inside window", func(t *testing.T) {
		require.NoError(t, validActivity().Validate(4, 2, start, completion, grace))
	})

	t.Run("inside grace window", func(t *testing.T) {
		a := validActivity()
		a.ActivityDate = completion.AddDays(grace)
		require.NoError(t, a.Validate(4, 2, start, completion, grace))
	})

	t.Run("before start", func(t *testing.T) {
		a := validActivity()
		a.ActivityDate = start.AddDays(-1)
		err := a.Validate(4, 2, start, completion, grace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "precedes adoption start")
	})

	t.Run("past grace window", func(t *testing.T) {
		a := validActivity()
		a.ActivityDate = completion.AddDays(grace + 1)
		err := a.Validate(4, 2, start, completion, grace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "past grace window")
	})

	t.Run("customer mismatch", func(t *testing.T) {
		err := validActivity().Validate(5, 2, start, completion, grace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match adoption customer")
	})

	t.Run("framework mismatch", func(t *testing.T) {
		err := validActivity().Validate(4, 3, start, completion, grace)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match adoption framework")
	})

	t.Run("non positive duration", func(t *testing.T) {
		a := validActivity()
		a.DurationMinutes = 0
		require.Error(t, a.Validate(4, 2, start, completion, grace))
	})

	t.Run("invalid enums", func(t *testing.T) {
		a := validActivity()
		a.Type = activity.Type("review")
		require.Error(t, a.Validate(4, 2, start, completion, grace))

		a = validActivity()
		a.RiskLevel = activity.RiskLevel("severe")
		require.Error(t, a.Validate(4, 2, start, completion, grace))
	})
}

func TestTypes_Canonical(t *testing.T) {
	want := []activity.Type{
		activity.TypeControlCheck,
		activity.TypeQuestionnaire,
		activity.TypeRemediation,
		activity.TypeTraining,
		activity.TypeAudit,
	}
	assert.Equal(t, want, activity.Types())
	for _, typ := range activity.Types() {
		assert.True(t, typ.Valid())
	}
	assert.False(t, activity.Type("assessment").Valid())
}
