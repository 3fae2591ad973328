package standup

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func validCreate() CreateRequest {
	return CreateRequest{
		JiraID:             "JIRA-1",
		TaskDescription:    "Build API",
		PercentageComplete: 40,
		NextTask:           "Write tests",
	}
}

func TestNew_NoBlocker(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	s, err := New(2, DayOf(now), validCreate(), now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.UserID)
	assert.Equal(t, "2026-03-02", s.Date.String())
	assert.Nil(t, s.BlockerStatus)
	assert.Nil(t, s.BlockerDescription)
	assert.Nil(t, s.UpdatedAt)
	assert.Equal(t, now, s.CreatedAt)
}

func TestNew_DropsDescriptionWithoutBlocker(t *testing.T) {
	req := validCreate()
	req.BlockerDescription = strPtr("leftover text")

	s, err := New(2, DayOf(time.Now()), req, time.Now())
	require.NoError(t, err)
	assert.Nil(t, s.BlockerDescription)
}

func TestNew_BlockerStartsAsNew(t *testing.T) {
	req := validCreate()
	req.HasBlocker = true
	req.BlockerDescription = strPtr("waiting on staging access")

	s, err := New(2, DayOf(time.Now()), req, time.Now())
	require.NoError(t, err)
	require.NotNil(t, s.BlockerStatus)
	assert.Equal(t, BlockerNew, *s.BlockerStatus)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*CreateRequest)
		wantField string
	}{
		{"blocker_without_description", func(r *CreateRequest) { r.HasBlocker = true }, "blockerDescription"},
		{"blocker_blank_description", func(r *CreateRequest) { r.HasBlocker = true; r.BlockerDescription = strPtr("   ") }, "blockerDescription"},
		{"percentage_negative", func(r *CreateRequest) { r.PercentageComplete = -1 }, "percentageComplete"},
		{"percentage_over", func(r *CreateRequest) { r.PercentageComplete = 101 }, "percentageComplete"},
		{"missing_jira", func(r *CreateRequest) { r.JiraID = " " }, "jiraId"},
		{"missing_next_task", func(r *CreateRequest) { r.NextTask = "" }, "nextTask"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreate()
			tt.mutate(&req)

			_, err := New(1, DayOf(time.Now()), req, time.Now())
			require.ErrorIs(t, err, ErrValidation)

			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func TestNew_PercentageBoundaries(t *testing.T) {
	for _, pct := range []int{0, 100} {
		req := validCreate()
		req.PercentageComplete = pct
		_, err := New(1, DayOf(time.Now()), req, time.Now())
		assert.NoError(t, err, "pct=%d", pct)
	}
}

func TestApply_PartialPatchLeavesOtherFields(t *testing.T) {
	now := time.Now().UTC()
	s, err := New(2, DayOf(time.Now()), validCreate(), now)
	require.NoError(t, err)
	before := s

	later := now.Add(time.Hour)
	require.NoError(t, s.Apply(UpdateRequest{PercentageComplete: Value(60)}, later))

	assert.Equal(t, 60, s.PercentageComplete)
	assert.Equal(t, before.JiraID, s.JiraID)
	assert.Equal(t, before.TaskDescription, s.TaskDescription)
	assert.Equal(t, before.NextTask, s.NextTask)
	require.NotNil(t, s.UpdatedAt)
	assert.Equal(t, later, *s.UpdatedAt)
}

func TestApply_ClearingBlockerDropsDescriptionAndStatus(t *testing.T) {
	req := validCreate()
	req.HasBlocker = true
	req.BlockerDescription = strPtr("db is down")
	s, err := New(2, DayOf(time.Now()), req, time.Now())
	require.NoError(t, err)

	patch := UpdateRequest{
		HasBlocker:         Value(false),
		BlockerDescription: Value("still mentioned"),
	}
	require.NoError(t, s.Apply(patch, time.Now()))

	assert.False(t, s.HasBlocker)
	assert.Nil(t, s.BlockerDescription)
	assert.Nil(t, s.BlockerStatus)
}

func TestApply_RaisingBlockerRequiresDescription(t *testing.T) {
	s, err := New(2, DayOf(time.Now()), validCreate(), time.Now())
	require.NoError(t, err)

	err = s.Apply(UpdateRequest{HasBlocker: Value(true)}, time.Now())
	require.ErrorIs(t, err, ErrValidation)

	s2, _ := New(2, DayOf(time.Now()), validCreate(), time.Now())
	err = s2.Apply(UpdateRequest{HasBlocker: Value(true), BlockerDescription: Value("")}, time.Now())
	require.ErrorIs(t, err, ErrValidation)

	s3, _ := New(2, DayOf(time.Now()), validCreate(), time.Now())
	require.NoError(t, s3.Apply(UpdateRequest{HasBlocker: Value(true), BlockerDescription: Value("vendor API")}, time.Now()))
	require.NotNil(t, s3.BlockerStatus)
	assert.Equal(t, BlockerNew, *s3.BlockerStatus)
}

func TestApply_NullHandling(t *testing.T) {
	req := validCreate()
	req.HasBlocker = true
	req.BlockerDescription = strPtr("flaky CI")

	t.Run("null_description_with_blocker_fails", func(t *testing.T) {
		s, _ := New(2, DayOf(time.Now()), req, time.Now())
		err := s.Apply(UpdateRequest{BlockerDescription: Null[string]()}, time.Now())
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("absent_description_keeps_value", func(t *testing.T) {
		s, _ := New(2, DayOf(time.Now()), req, time.Now())
		require.NoError(t, s.Apply(UpdateRequest{NextTask: Value("deploy")}, time.Now()))
		require.NotNil(t, s.BlockerDescription)
		assert.Equal(t, "flaky CI", *s.BlockerDescription)
	})

	t.Run("null_on_required_text_fails", func(t *testing.T) {
		s, _ := New(2, DayOf(time.Now()), req, time.Now())
		err := s.Apply(UpdateRequest{JiraID: Null[string]()}, time.Now())
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("null_percentage_fails", func(t *testing.T) {
		s, _ := New(2, DayOf(time.Now()), req, time.Now())
		err := s.Apply(UpdateRequest{PercentageComplete: Null[int]()}, time.Now())
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestUpdateRequest_JSONDistinguishesAbsentAndNull(t *testing.T) {
	var req UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"percentageComplete":70,"blockerDescription":null}`), &req))

	assert.True(t, req.PercentageComplete.Present())
	assert.Equal(t, 70, req.PercentageComplete.Value)
	assert.True(t, req.BlockerDescription.Set)
	assert.True(t, req.BlockerDescription.Null)
	assert.False(t, req.JiraID.Set)
	assert.False(t, req.HasBlocker.Set)
}

func TestSetBlockerStatus(t *testing.T) {
	req := validCreate()
	req.HasBlocker = true
	req.BlockerDescription = strPtr("no access")

	s, err := New(2, DayOf(time.Now()), req, time.Now())
	require.NoError(t, err)

	require.NoError(t, s.SetBlockerStatus(BlockerCritical, time.Now()))
	require.NoError(t, s.SetBlockerStatus(BlockerNew, time.Now()))
	require.NoError(t, s.SetBlockerStatus(BlockerResolved, time.Now()))
	require.NoError(t, s.SetBlockerStatus(BlockerResolved, time.Now()))

	err = s.SetBlockerStatus(BlockerNew, time.Now())
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, BlockerResolved, *s.BlockerStatus)

	noBlocker, _ := New(3, DayOf(time.Now()), validCreate(), time.Now())
	require.ErrorIs(t, noBlocker.SetBlockerStatus(BlockerCritical, time.Now()), ErrNotFound)
}

func TestDayJSON(t *testing.T) {
	d, err := ParseDay("2026-10-17")
	require.NoError(t, err)

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-10-17"`, string(b))

	var back Day
	require.NoError(t, json.Unmarshal(b, &back))
	assert.True(t, back.Equal(d))

	_, err = ParseDay("17/10/2026")
	assert.Error(t, err)
}

func TestParseBlockerStatus(t *testing.T) {
	s, ok := ParseBlockerStatus("critical")
	require.True(t, ok)
	assert.Equal(t, BlockerCritical, s)

	_, ok = ParseBlockerStatus("Blocked")
	assert.False(t, ok)

	labels := BlockerStatusLabels()
	require.Len(t, labels, 3)
	assert.Equal(t, BlockerNew, labels[0].Value)
}

func TestUpdateRequest_EncodeOmitsAbsent(t *testing.T) {
	b, err := json.Marshal(UpdateRequest{
		PercentageComplete: Value(60),
		BlockerDescription: Null[string](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"percentageComplete":60,"blockerDescription":null}`, string(b))
}
