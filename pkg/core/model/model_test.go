package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStatus_CanTransition(t *testing.T) {
	tests := []struct {
		from     ApplicationStatus
		to       ApplicationStatus
		expected bool
	}{
		{StatusApplied, StatusAccepted, true},
		{StatusApplied, StatusDeclined, true},
		{StatusApplied, StatusCanceled, true},
		{StatusApplied, StatusParticipated, false},
		{StatusApplied, StatusNoShow, false},
		{StatusAccepted, StatusParticipated, true},
		{StatusAccepted, StatusNoShow, true},
		{StatusAccepted, StatusCanceled, true},
		{StatusAccepted, StatusDeclined, false},
		{StatusDeclined, StatusAccepted, false},
		{StatusParticipated, StatusCanceled, false},
		{StatusNoShow, StatusParticipated, false},
		{StatusCanceled, StatusApplied, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s to %s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransition(tt.to))
		})
	}
}

func TestApplicationStatus_Terminal(t *testing.T) {
	assert.False(t, StatusApplied.Terminal())
	assert.False(t, StatusAccepted.Terminal())
	assert.True(t, StatusDeclined.Terminal())
	assert.True(t, StatusParticipated.Terminal())
	assert.True(t, StatusNoShow.Terminal())
	assert.True(t, StatusCanceled.Terminal())
}

func TestParseApplicationStatus(t *testing.T) {
	status, err := ParseApplicationStatus(" Accepted ")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, status)

	_, err = ParseApplicationStatus("accepted")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Status must be one of")
}

func TestParseUrgency_CaseInsensitive(t *testing.T) {
	for _, in := range []string{"high", "HIGH", "High", " hIgH "} {
		u, err := ParseUrgency(in)
		require.NoError(t, err)
		assert.Equal(t, UrgencyHigh, u)
	}

	_, err := ParseUrgency("critical")
	assert.Error(t, err)
}

func TestSkill_UnmarshalJSON_AcceptsStringsAndObjects(t *testing.T) {
	var skills []Skill
	data := `["Teaching", {"name": "Cooking", "proficiency": "Expert"}, {"skill_name": "First Aid", "proficiency_level": "Intermediate"}]`

	require.NoError(t, json.Unmarshal([]byte(data), &skills))
	require.Len(t, skills, 3)
	assert.Equal(t, Skill{Name: "Teaching"}, skills[0])
	assert.Equal(t, Skill{Name: "Cooking", Proficiency: "Expert"}, skills[1])
	assert.Equal(t, Skill{Name: "First Aid", Proficiency: "Intermediate"}, skills[2])
}

func TestSkill_UnmarshalJSON_RejectsOtherShapes(t *testing.T) {
	var s Skill
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestNormalizeSkills(t *testing.T) {
	skills := NormalizeSkills([]Skill{
		{Name: " Teaching "},
		{Name: ""},
		{Name: "Teaching", Proficiency: "Expert"},
		{Name: "Cooking", Proficiency: "Expert"},
	})

	require.Len(t, skills, 2)
	assert.Equal(t, Skill{Name: "Teaching", Proficiency: DefaultProficiency}, skills[0])
	assert.Equal(t, Skill{Name: "Cooking", Proficiency: "Expert"}, skills[1])
}

func TestNormalizePreferences_DropsBlanks(t *testing.T) {
	prefs := NormalizePreferences([]string{" animals ", "", "   ", "animals"})
	assert.Equal(t, []string{"animals", "animals"}, prefs)
}

func TestEvent_Full(t *testing.T) {
	limit := 2
	e := &Event{MaxVolunteers: &limit, CurrentVolunteers: 1}
	assert.False(t, e.Full())

	e.CurrentVolunteers = 2
	assert.True(t, e.Full())

	unbounded := &Event{CurrentVolunteers: 1000}
	assert.False(t, unbounded.Full())
}

func TestError_KindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("apply: %w", NewError(KindEventFull, MsgEventFull))

	assert.True(t, IsKind(err, KindEventFull))
	assert.False(t, Retryable(err))
	assert.Equal(t, KindEventFull, KindOf(err))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))

	storage := StorageUnavailable(errors.New("connection refused"))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", storage)))
	assert.Contains(t, storage.Error(), "connection refused")
}

func TestAlreadyApplied_MessageIncludesStatus(t *testing.T) {
	err := AlreadyApplied(StatusAccepted)
	assert.Equal(t, "You have already applied for this event (Status: Accepted)", err.Message)
}
