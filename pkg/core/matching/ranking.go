package matching

import (
	"sort"
	"time"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
)

// RankedEvent is an event paired with its match score for one volunteer
type RankedEvent struct {
	Event     *model.Event `json:"event"`
	Score     int          `json:"match_score"`
	Breakdown Breakdown    `json:"breakdown"`
}

// Candidates drops events that are not accepting volunteers. It runs before
// scoring so non-actionable events are never scored.
func Candidates(events []*model.Event) []*model.Event {
	out := make([]*model.Event, 0, len(events))
	for _, e := range events {
		if e.Status.AcceptsVolunteers() {
			out = append(out, e)
		}
	}
	return out
}

// Rank scores the candidate events for the volunteer and sorts them by score,
// highest first. Equal scores keep their input order, so callers that pass
// events ordered by start date get soonest-first tie-breaking.
func Rank(volunteer *model.VolunteerProfile, events []*model.Event, now time.Time) []RankedEvent {
	candidates := Candidates(events)

	ranked := make([]RankedEvent, 0, len(candidates))
	for _, e := range candidates {
		b := ScoreBreakdown(volunteer, e, now)
		ranked = append(ranked, RankedEvent{
			Event:     e,
			Score:     b.Total(),
			Breakdown: b,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
