package matching

// Per-component score caps and points
const (
	// PointsPerSkill is awarded for each required skill the volunteer holds
	PointsPerSkill = 2
	// MaxSkillPoints caps the skill overlap component
	MaxSkillPoints = 5

	// MaxPreferencePoints caps the preference match component (one point per matching preference)
	MaxPreferencePoints = 3

	UrgencyHighPoints   = 3
	UrgencyMediumPoints = 2
	UrgencyLowPoints    = 1
)

// proximityBands maps "days until start is below N" to points, checked in order.
// Events 30 or more days away score 0.
var proximityBands = []struct {
	belowDays int
	points    int
}{
	{3, 4},
	{7, 3},
	{14, 2},
	{30, 1},
}
