package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Manage Google Calendar events through the calendar MCP server",
	}
	cmd.AddCommand(
		calendarCreateCmd(),
		calendarListCmd(),
		calendarDeleteCmd(),
		calendarFreeBusyCmd(),
	)
	return cmd
}

func calendarCreateCmd() *cobra.Command {
	var in calendar.EventInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a calendar event",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := newCalendar(newLogger())
			event, err := gw.CreateEvent(cmd.Context(), in)
			if err != nil {
				return calendarError("create", err)
			}
			return printJSON(event)
		},
	}

	cmd.Flags().StringVar(&in.Summary, "summary", "", "event title")
	cmd.Flags().StringVar(&in.Description, "description", "", "event description")
	cmd.Flags().StringVar(&in.StartTime, "start", "", "start time (ISO 8601)")
	cmd.Flags().StringVar(&in.EndTime, "end", "", "end time (ISO 8601)")
	cmd.Flags().StringVar(&in.Location, "location", "", "event location")
	cmd.Flags().StringVar(&in.TimeZone, "tz", "", "IANA time zone (default from config)")
	_ = cmd.MarkFlagRequired("summary")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func calendarListCmd() *cobra.Command {
	var params calendar.ListEventsParams

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List calendar events in a time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := newCalendar(newLogger())
			out, err := gw.ListEvents(cmd.Context(), params)
			if err != nil {
				return calendarError("list", err)
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&params.CalendarID, "calendar", "primary", "calendar ID")
	cmd.Flags().StringVar(&params.TimeMin, "from", "", "window start (ISO 8601)")
	cmd.Flags().StringVar(&params.TimeMax, "to", "", "window end (ISO 8601)")
	cmd.Flags().StringVar(&params.Query, "query", "", "free-text filter")
	return cmd
}

func calendarDeleteCmd() *cobra.Command {
	var calendarID string

	cmd := &cobra.Command{
		Use:   "delete [event-id]",
		Short: "Delete a calendar event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			gw := newCalendar(newLogger())
			out, err := gw.DeleteEvent(cmd.Context(), calendar.DeleteEventParams{CalendarID: calendarID, EventID: args[0]})
			if err != nil {
				return calendarError("delete", err)
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&calendarID, "calendar", "primary", "calendar ID")
	return cmd
}

func calendarFreeBusyCmd() *cobra.Command {
	var (
		calendars []string
		from, to  string
		tz        string
	)

	cmd := &cobra.Command{
		Use:   "freebusy",
		Short: "Show busy blocks across calendars",
		RunE: func(cmd *cobra.Command, args []string) error {
			params := calendar.FreeBusyParams{TimeMin: from, TimeMax: to, TimeZone: tz}
			for _, id := range calendars {
				params.Calendars = append(params.Calendars, calendar.FreeBusyCalendar{ID: strings.TrimSpace(id)})
			}

			gw := newCalendar(newLogger())
			out, err := gw.GetFreeBusy(cmd.Context(), params)
			if err != nil {
				return calendarError("freebusy", err)
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringSliceVar(&calendars, "calendar", []string{"primary"}, "calendar IDs")
	cmd.Flags().StringVar(&from, "from", "", "window start (ISO 8601)")
	cmd.Flags().StringVar(&to, "to", "", "window end (ISO 8601)")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA time zone (default from config)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

// calendarError adds setup instructions when credentials are missing.
func calendarError(op string, err error) error {
	if errors.Is(err, calendar.ErrNotConfigured) {
		return fmt.Errorf("calendar %s: %w\n%s", op, err, calendar.NotConfiguredMessage)
	}
	return fmt.Errorf("calendar %s: %w", op, err)
}
