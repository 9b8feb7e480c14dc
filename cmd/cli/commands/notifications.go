package commands

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/history"
)

// NotificationsCmd creates the notifications command
func NotificationsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications <recipient_id>",
		Short: "List a user's notifications, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unread, _ := cmd.Flags().GetBool("unread")
			markRead, _ := cmd.Flags().GetBool("mark-read")

			notes, err := services.ListNotifications(app.Ctx, app.Database, args[0], unread)
			if err != nil {
				return err
			}

			app.printf("\nFound %d notifications:\n\n", len(notes))
			for _, n := range notes {
				marker := " "
				if !n.Read {
					marker = "•"
				}
				app.printf("%s %s  %s\n", marker, n.CreatedAt.Format(timeLayout), n.Title)
				app.printf("    %s\n", n.Message)
				if n.Link != "" {
					app.printf("    %s\n", n.Link)
				}
			}
			app.printf("\n")

			if markRead {
				count, err := services.MarkAllNotificationsRead(app.Ctx, app.Database, app.Logger, args[0])
				if err != nil {
					return err
				}
				app.printf("Marked %d as read\n\n", count)
			}
			return nil
		},
	}

	cmd.Flags().Bool("unread", false, "Only show unread notifications")
	cmd.Flags().Bool("mark-read", false, "Mark every listed notification as read")

	return cmd
}

// AuditCmd creates the audit command
func AuditCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show recorded application changes from the history store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.History == nil {
				return errors.New("audit needs history.mongoURI to be configured")
			}

			var filter history.Filter
			filter.ApplicationID, _ = cmd.Flags().GetString("application")
			filter.VolunteerID, _ = cmd.Flags().GetString("volunteer")
			filter.EventID, _ = cmd.Flags().GetString("event")
			filter.Limit, _ = cmd.Flags().GetInt64("limit")
			if since, _ := cmd.Flags().GetDuration("since"); since > 0 {
				filter.Since = time.Now().UTC().Add(-since)
			}

			entries, err := app.History.Query(app.Ctx, filter)
			if err != nil {
				return err
			}

			app.printf("\nFound %d entries:\n\n", len(entries))
			for _, e := range entries {
				from := "-"
				if e.From != "" {
					from = string(e.From)
				}
				app.printf("%s  %-10s %-12s → %-12s application %s  volunteer %s  event %s\n",
					e.At.Format("2006-01-02 15:04:05"), e.Action, from, e.To,
					e.ApplicationID, e.VolunteerID, e.EventID)
			}
			app.printf("\n")
			return nil
		},
	}

	cmd.Flags().String("application", "", "Only entries for this application")
	cmd.Flags().String("volunteer", "", "Only entries for this volunteer")
	cmd.Flags().String("event", "", "Only entries for this event")
	cmd.Flags().Duration("since", 0, "Only entries newer than this, e.g. 72h")
	cmd.Flags().Int64("limit", 0, "Maximum entries to show")

	return cmd
}
