package matching

import (
	"strings"
	"time"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

const day = 24 * time.Hour

// Breakdown holds the individual score components
type Breakdown struct {
	Skills      int `json:"skills"`
	Preferences int `json:"preferences"`
	Urgency     int `json:"urgency"`
	Proximity   int `json:"proximity"`
}

// Total is the unclamped sum of the components (0-15)
func (b Breakdown) Total() int {
	return b.Skills + b.Preferences + b.Urgency + b.Proximity
}

// Score computes the match score between a volunteer and an event at the given time.
// It is pure: identical inputs and now always produce the same score.
func Score(volunteer *model.VolunteerProfile, event *model.Event, now time.Time) int {
	return ScoreBreakdown(volunteer, event, now).Total()
}

// ScoreBreakdown computes each score component, clamped per component
func ScoreBreakdown(volunteer *model.VolunteerProfile, event *model.Event, now time.Time) Breakdown {
	return Breakdown{
		Skills:      skillPoints(volunteer, event),
		Preferences: preferencePoints(volunteer.Preferences, event.Description),
		Urgency:     urgencyPoints(event.Urgency),
		Proximity:   proximityPoints(event.Start, now),
	}
}

// skillPoints counts distinct required skills the volunteer holds
func skillPoints(volunteer *model.VolunteerProfile, event *model.Event) int {
	if len(event.RequiredSkills) == 0 || len(volunteer.Skills) == 0 {
		return 0
	}

	held := volunteer.SkillNames()
	counted := make(map[string]bool, len(event.RequiredSkills))
	overlap := 0
	for _, skill := range event.RequiredSkills {
		if counted[skill] {
			continue
		}
		counted[skill] = true
		if held[skill] {
			overlap++
		}
	}

	return min(overlap*PointsPerSkill, MaxSkillPoints)
}

// preferencePoints counts preferences found (case-insensitively) in the description
func preferencePoints(preferences []string, description string) int {
	if len(preferences) == 0 {
		return 0
	}

	desc := strings.ToLower(description)
	matches := 0
	for _, pref := range preferences {
		if strings.Contains(desc, strings.ToLower(pref)) {
			matches++
		}
	}

	return min(matches, MaxPreferencePoints)
}

func urgencyPoints(u model.Urgency) int {
	switch u {
	case model.UrgencyHigh:
		return UrgencyHighPoints
	case model.UrgencyMedium:
		return UrgencyMediumPoints
	default:
		return UrgencyLowPoints
	}
}

// DaysUntil returns whole days from now until start, floored and never negative
func DaysUntil(start, now time.Time) int {
	d := start.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

func proximityPoints(start, now time.Time) int {
	days := DaysUntil(start, now)
	for _, band := range proximityBands {
		if days < band.belowDays {
			return band.points
		}
	}
	return 0
}
