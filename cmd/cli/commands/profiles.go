package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

// SaveProfileCmd creates the saveProfile command
func SaveProfileCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saveProfile <volunteer_id>",
		Short: "Create or replace a volunteer profile",
		Long: `Create or replace a volunteer profile.
Skills are given as name or name:proficiency, e.g. --skill "First Aid:Expert".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := services.ProfileInput{ID: args[0]}
			input.FullName, _ = cmd.Flags().GetString("name")
			input.Email, _ = cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")
			input.Role = model.Role(role)
			input.Preferences, _ = cmd.Flags().GetStringSlice("preference")

			skills, _ := cmd.Flags().GetStringSlice("skill")
			input.Skills = parseSkills(skills)

			profile, err := services.SaveProfile(app.Ctx, app.Database, app.Logger, input)
			if err != nil {
				return err
			}

			app.printf("\n✓ Profile saved\n\n")
			app.printf("ID:          %s\n", profile.ID)
			app.printf("Name:        %s\n", profile.FullName)
			app.printf("Role:        %s\n", profile.Role)
			for _, s := range profile.Skills {
				app.printf("Skill:       %s (%s)\n", s.Name, s.Proficiency)
			}
			if len(profile.Preferences) > 0 {
				app.printf("Preferences: %s\n", strings.Join(profile.Preferences, ", "))
			}
			app.printf("\n")
			return nil
		},
	}

	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Email address for notifications")
	cmd.Flags().String("role", "", "volunteer or organization")
	cmd.Flags().StringSlice("skill", nil, "Skill as name or name:proficiency (repeatable)")
	cmd.Flags().StringSlice("preference", nil, "Preference keyword (repeatable)")

	return cmd
}

func parseSkills(raw []string) []model.Skill {
	skills := make([]model.Skill, 0, len(raw))
	for _, r := range raw {
		name, proficiency, _ := strings.Cut(r, ":")
		skills = append(skills, model.Skill{
			Name:        strings.TrimSpace(name),
			Proficiency: strings.TrimSpace(proficiency),
		})
	}
	return skills
}
