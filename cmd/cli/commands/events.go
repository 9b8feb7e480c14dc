package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/model"
	"github.com/AyanAnees/volunteer-webapp-sd29-sub001/pkg/core/services"
)

const timeLayout = "2006-01-02 15:04"

// addEventFlags registers the flags describing a single event
func addEventFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "Event name (max 100 characters)")
	flags.String("description", "", "Event description")
	flags.String("location", "", "Where the event takes place")
	flags.StringSlice("skill", nil, "Required skill (repeatable)")
	flags.String("urgency", "Medium", "Low, Medium or High")
	flags.String("start", "", `Start time, "2006-01-02 15:04" in UTC or RFC3339`)
	flags.Duration("duration", 2*time.Hour, "How long the event lasts")
	flags.Int("max", 0, "Maximum volunteers (0 for unlimited)")
	flags.String("created-by", "", "Organization user id")
}

func eventInputFromFlags(flags *pflag.FlagSet) (services.CreateEventInput, error) {
	var input services.CreateEventInput

	input.Title, _ = flags.GetString("name")
	input.Description, _ = flags.GetString("description")
	input.Location, _ = flags.GetString("location")
	input.RequiredSkills, _ = flags.GetStringSlice("skill")
	input.Urgency, _ = flags.GetString("urgency")
	input.CreatedBy, _ = flags.GetString("created-by")

	rawStart, _ := flags.GetString("start")
	if rawStart != "" {
		start, err := parseTime(rawStart)
		if err != nil {
			return input, err
		}
		duration, _ := flags.GetDuration("duration")
		input.Start = start
		input.End = start.Add(duration)
	}

	if limit, _ := flags.GetInt("max"); limit != 0 {
		input.MaxVolunteers = &limit
	}
	return input, nil
}

func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation(timeLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected %q or RFC3339", raw, timeLayout)
	}
	return t, nil
}

// CreateEventCmd creates the createEvent command
func CreateEventCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createEvent",
		Short: "Create a single Planned event",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := eventInputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			event, err := services.CreateEvent(app.Ctx, app.Database, app.Effects, app.Logger, input)
			if err != nil {
				return err
			}

			app.printf("\n✓ Event created successfully!\n\n")
			printEvent(app, event)
			return nil
		},
	}

	addEventFlags(cmd.Flags())

	return cmd
}

// CreateEventSeriesCmd creates the createEventSeries command
func CreateEventSeriesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "createEventSeries",
		Short: "Create one Planned event per occurrence of a recurrence rule",
		Long: `Create a series of events from a template and an RFC 5545 recurrence rule.
The template's start is the first occurrence; every occurrence keeps the template's duration.

Example:
  createEventSeries --name "Food bank" --description "Sorting donations" --location Ilford \
    --start "2026-11-01 10:00" --rrule "FREQ=WEEKLY;COUNT=6" --created-by org-1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			template, err := eventInputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}

			rule, _ := cmd.Flags().GetString("rrule")
			if rule == "" {
				rule = app.Cfg.SeriesDefaults.RRule
			}
			maxOccurrences, _ := cmd.Flags().GetInt("max-occurrences")
			if maxOccurrences == 0 {
				maxOccurrences = app.Cfg.SeriesDefaults.MaxOccurrences
			}

			events, err := services.CreateEventSeries(app.Ctx, app.Database, app.Effects, app.Logger, services.CreateEventSeriesInput{
				Template:       template,
				RRule:          rule,
				MaxOccurrences: maxOccurrences,
			})
			if err != nil {
				return err
			}

			app.printf("\n✓ Created %d events in series %s\n\n", len(events), events[0].SeriesID)
			for i, e := range events {
				app.printf("  %2d. %s  %s\n", i+1, e.Start.Format("2006-01-02 (Monday) 15:04"), e.ID)
			}
			app.printf("\n")
			return nil
		},
	}

	addEventFlags(cmd.Flags())
	cmd.Flags().String("rrule", "", "Recurrence rule, e.g. FREQ=WEEKLY;COUNT=4 (defaults to config)")
	cmd.Flags().Int("max-occurrences", 0, "Upper bound on created events (defaults to config)")

	return cmd
}

// SetEventStatusCmd creates the setEventStatus command
func SetEventStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setEventStatus <event_id> <status>",
		Short: "Set an event to Planned, InProgress, Completed or Cancelled",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			event, err := services.UpdateEventStatus(app.Ctx, app.Database, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			app.printf("\n✓ Event status updated\n\n")
			printEvent(app, event)
			return nil
		},
	}
}

// ListEventsCmd creates the listEvents command
func ListEventsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listEvents",
		Short: "List events ordered by start date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter model.EventFilter

			statuses, _ := cmd.Flags().GetStringSlice("status")
			for _, s := range statuses {
				status, err := model.ParseEventStatus(s)
				if err != nil {
					return err
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			if raw, _ := cmd.Flags().GetString("urgency"); raw != "" {
				urgency, err := model.ParseUrgency(raw)
				if err != nil {
					return err
				}
				filter.Urgency = urgency
			}
			filter.Skill, _ = cmd.Flags().GetString("skill")
			filter.CreatedBy, _ = cmd.Flags().GetString("created-by")
			if raw, _ := cmd.Flags().GetString("from"); raw != "" {
				t, err := parseTime(raw)
				if err != nil {
					return err
				}
				filter.StartsAfter = t
			}
			if raw, _ := cmd.Flags().GetString("to"); raw != "" {
				t, err := parseTime(raw)
				if err != nil {
					return err
				}
				filter.EndsBefore = t
			}

			events, err := services.ListEvents(app.Ctx, app.Database, app.Logger, filter)
			if err != nil {
				return err
			}

			app.printf("\nFound %d events:\n\n", len(events))
			for _, e := range events {
				app.printf("- %s  %-10s %s  %s (%s) %s\n",
					e.Start.Format(timeLayout), e.Status, e.Title, e.Location, e.Urgency, capacity(e))
			}
			app.printf("\n")
			return nil
		},
	}

	cmd.Flags().StringSlice("status", nil, "Only events in these statuses")
	cmd.Flags().String("urgency", "", "Only events with this urgency")
	cmd.Flags().String("skill", "", "Only events requiring this skill")
	cmd.Flags().String("created-by", "", "Only events created by this organization")
	cmd.Flags().String("from", "", "Only events starting at or after this time")
	cmd.Flags().String("to", "", "Only events ending at or before this time")

	return cmd
}

func capacity(e *model.Event) string {
	if e.MaxVolunteers == nil {
		return fmt.Sprintf("%d volunteers", e.CurrentVolunteers)
	}
	return fmt.Sprintf("%d/%d volunteers", e.CurrentVolunteers, *e.MaxVolunteers)
}

func printEvent(app *AppContext, e *model.Event) {
	app.printf("Event ID:  %s\n", e.ID)
	app.printf("Name:      %s\n", e.Title)
	app.printf("Location:  %s\n", e.Location)
	app.printf("Starts:    %s\n", e.Start.Format(timeLayout))
	app.printf("Ends:      %s\n", e.End.Format(timeLayout))
	app.printf("Urgency:   %s\n", e.Urgency)
	app.printf("Status:    %s\n", e.Status)
	app.printf("Capacity:  %s\n", capacity(e))
	if len(e.RequiredSkills) > 0 {
		app.printf("Skills:    %s\n", strings.Join(e.RequiredSkills, ", "))
	}
	app.printf("\n")
}
