package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

// ApplyCmd creates the apply command
func ApplyCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <volunteer_id> <event_id>",
		Short: "Apply a volunteer to an event, reserving a place if it has a limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := services.Apply(app.Ctx, app.Database, app.Effects, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			app.printf("\n✓ Application created\n\n")
			printApplication(app, application)
			return nil
		},
	}
}

// TransitionCmd creates the transition command
func TransitionCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transition <application_id> <status>",
		Short: "Move an application to Accepted, Declined, Participated, NoShow or Canceled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var payload services.TransitionPayload
			if cmd.Flags().Changed("hours") {
				hours, _ := cmd.Flags().GetFloat64("hours")
				payload.HoursLogged = &hours
			}

			application, err := services.Transition(app.Ctx, app.Database, app.Effects, app.Logger,
				args[0], model.ApplicationStatus(args[1]), payload)
			if err != nil {
				return err
			}

			app.printf("\n✓ Application is now %s\n\n", application.Status)
			printApplication(app, application)
			return nil
		},
	}

	cmd.Flags().Float64("hours", 0, "Hours logged (required for Participated)")

	return cmd
}

// FeedbackCmd creates the feedback command
func FeedbackCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <application_id> <rating> <text...>",
		Short: "Attach a 1-5 rating and feedback to a participated application",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("rating must be a number: %w", err)
			}

			application, err := services.AttachFeedback(app.Ctx, app.Database, app.Effects, app.Logger,
				args[0], strings.Join(args[2:], " "), rating)
			if err != nil {
				return err
			}

			app.printf("\n✓ Feedback recorded\n\n")
			printApplication(app, application)
			return nil
		},
	}
}

// HistoryCmd creates the history command
func HistoryCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <volunteer_id>",
		Short: "List a volunteer's applications, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			records, err := services.VolunteerHistory(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return app.printJSON(records)
			}

			app.printf("\nFound %d applications:\n\n", len(records))
			for _, r := range records {
				title := "(event removed)"
				if r.Event != nil {
					title = r.Event.Title + " on " + r.Event.Start.Format("2006-01-02")
				}
				app.printf("- %s  %-12s %s", r.Application.ID, r.Application.Status, title)
				if r.Application.HoursLogged != nil {
					app.printf("  %.1fh", *r.Application.HoursLogged)
				}
				if r.Application.Rating != nil {
					app.printf("  rated %d/5", *r.Application.Rating)
				}
				app.printf("\n")
			}
			app.printf("\n")
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Print the history as JSON")

	return cmd
}

// EventVolunteersCmd creates the eventVolunteers command
func EventVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "eventVolunteers <event_id>",
		Short: "List the applications for an event in the order they were made",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apps, err := services.EventVolunteers(app.Ctx, app.Database, app.Logger, args[0])
			if err != nil {
				return err
			}

			app.printf("\nFound %d applications:\n\n", len(apps))
			for _, a := range apps {
				app.printf("- %s  %-12s volunteer %s  applied %s\n",
					a.ID, a.Status, a.VolunteerID, a.AppliedAt.Format("2006-01-02 15:04"))
			}
			app.printf("\n")
			return nil
		},
	}
}

func printApplication(app *AppContext, a *model.Application) {
	app.printf("Application ID: %s\n", a.ID)
	app.printf("Volunteer:      %s\n", a.VolunteerID)
	app.printf("Event:          %s\n", a.EventID)
	app.printf("Status:         %s\n", a.Status)
	if a.HoursLogged != nil {
		app.printf("Hours:          %.1f\n", *a.HoursLogged)
	}
	if a.Rating != nil {
		app.printf("Rating:         %d/5\n", *a.Rating)
	}
	if a.Feedback != nil {
		app.printf("Feedback:       %s\n", *a.Feedback)
	}
	app.printf("\n")
}
