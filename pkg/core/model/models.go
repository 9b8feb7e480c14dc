package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleVolunteer    Role = "volunteer"
	RoleOrganization Role = "organization"
)

func (r Role) IsValid() bool {
	return r == RoleVolunteer || r == RoleOrganization
}

// DefaultProficiency is applied to skills saved without a proficiency label
const DefaultProficiency = "Beginner"

// Skill is a named skill with an optional proficiency label.
// It decodes from either a bare JSON string or an object with name/proficiency.
type Skill struct {
	Name        string `json:"name"`
	Proficiency string `json:"proficiency,omitempty"`
}

func (s *Skill) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Skill{Name: name}
		return nil
	}

	var obj struct {
		Name        string `json:"name"`
		SkillName   string `json:"skill_name"`
		Proficiency string `json:"proficiency"`
		Level       string `json:"proficiency_level"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("skill must be a string or an object with a name: %w", err)
	}

	s.Name = obj.Name
	if s.Name == "" {
		s.Name = obj.SkillName
	}
	s.Proficiency = obj.Proficiency
	if s.Proficiency == "" {
		s.Proficiency = obj.Level
	}
	return nil
}

// NormalizeSkills trims names, drops blanks and duplicates (first wins) and
// applies the default proficiency
func NormalizeSkills(skills []Skill) []Skill {
	seen := make(map[string]bool, len(skills))
	out := make([]Skill, 0, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		proficiency := strings.TrimSpace(s.Proficiency)
		if proficiency == "" {
			proficiency = DefaultProficiency
		}
		out = append(out, Skill{Name: name, Proficiency: proficiency})
	}
	return out
}

// NormalizePreferences trims preference strings and drops blank entries.
// Duplicates are kept; each one counts towards preference matching.
func NormalizePreferences(prefs []string) []string {
	out := make([]string, 0, len(prefs))
	for _, p := range prefs {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// VolunteerProfile is the read-only view of a user used by matching and enrollment
type VolunteerProfile struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email,omitempty"`
	Role        Role      `json:"role"`
	Skills      []Skill   `json:"skills"`
	Preferences []string  `json:"preferences"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SkillNames returns the set of skill names held by the volunteer
func (p *VolunteerProfile) SkillNames() map[string]bool {
	names := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		names[s.Name] = true
	}
	return names
}

// Notification is an at-rest message for a user
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Link        string    `json:"link,omitempty"`
	Read        bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// HistoryEntry records one committed change to an application
type HistoryEntry struct {
	ApplicationID string            `json:"application_id" bson:"application_id"`
	EventID       string            `json:"event_id" bson:"event_id"`
	VolunteerID   string            `json:"volunteer_id" bson:"volunteer_id"`
	Action        string            `json:"action" bson:"action"` // "apply", "transition", "feedback"
	From          ApplicationStatus `json:"from,omitempty" bson:"from,omitempty"`
	To            ApplicationStatus `json:"to" bson:"to"`
	At            time.Time         `json:"at" bson:"at"`
}
