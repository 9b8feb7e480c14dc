package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

// RankEventsCmd creates the rankEvents command
func RankEventsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rankEvents <volunteer_id>",
		Short: "List open events ranked by how well they match a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			asJSON, _ := cmd.Flags().GetBool("json")

			ranked, err := services.RankEvents(app.Ctx, app.Database, app.Logger, args[0], time.Now().UTC())
			if err != nil {
				return err
			}
			if limit > 0 && len(ranked) > limit {
				ranked = ranked[:limit]
			}

			if asJSON {
				return app.printJSON(ranked)
			}

			if len(ranked) == 0 {
				app.printf("\nNo open events.\n\n")
				return nil
			}

			app.printf("\n🎯 Matches for %s\n\n", args[0])
			for i, r := range ranked {
				app.printf("%2d. [%2d] %s  %s  %s (%s)\n",
					i+1,
					r.Score,
					r.Event.Start.Format("2006-01-02 15:04"),
					r.Event.Title,
					r.Event.Location,
					r.Event.Urgency)
				app.printf("       skills %d · preferences %d · urgency %d · proximity %d",
					r.Breakdown.Skills, r.Breakdown.Preferences, r.Breakdown.Urgency, r.Breakdown.Proximity)
				if len(r.Event.RequiredSkills) > 0 {
					app.printf(" · needs %s", strings.Join(r.Event.RequiredSkills, ", "))
				}
				app.printf("\n")
			}
			app.printf("\n")
			return nil
		},
	}

	cmd.Flags().Int("limit", 0, "Show at most this many events (0 for all)")
	cmd.Flags().Bool("json", false, "Print the ranking as JSON")

	return cmd
}
