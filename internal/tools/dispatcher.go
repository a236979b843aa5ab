// Package tools holds the canonical tool registry and the dispatcher that
// executes model-issued tool calls against the data store and the external
// gateways.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/catalog"
	"github.com/ajitpratap0/campus-advisor/internal/events"
	"github.com/ajitpratap0/campus-advisor/internal/metrics"
	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/store"
)

// ErrToolNotFound is returned by Invoke for a name that is not registered.
var ErrToolNotFound = errors.New("tool not found")

const calendarFailureMessage = "Failed to create calendar event. Make sure Google Calendar MCP is properly configured."

// Failure is the structured payload returned in place of an error so the
// model can explain what went wrong.
type Failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message"`
}

// MissingArgument is returned when a required argument is blank.
type MissingArgument struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// EventsAPI is the campus events gateway.
type EventsAPI interface {
	Events(ctx context.Context, q events.Query) (json.RawMessage, error)
	CategoryCounts(ctx context.Context, q events.Query) (json.RawMessage, error)
	Categories(ctx context.Context) (json.RawMessage, error)
}

// CalendarAPI is the calendar write gateway.
type CalendarAPI interface {
	CreateEvent(ctx context.Context, in calendar.EventInput) (any, error)
}

// Dispatcher maps a tool name and its arguments to a result.
type Dispatcher struct {
	store    store.Store
	events   EventsAPI
	calendar CalendarAPI
	logger   *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(st store.Store, ev EventsAPI, cal CalendarAPI, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{store: st, events: ev, calendar: cal, logger: logger}
}

// Definitions returns the tools this dispatcher can run.
func (d *Dispatcher) Definitions() []Definition {
	return Definitions()
}

// Invoke runs the named tool. The only error it returns is ErrToolNotFound;
// every other failure is reported through the returned payload.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	if _, ok := Lookup(name); !ok {
		metrics.Inc(metrics.ToolNotFound)
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
	}
	metrics.Inc(metrics.ToolCallsTotal)

	start := time.Now()
	result, err := d.run(ctx, name, args)
	if err != nil {
		metrics.Inc(metrics.ToolFailures)
		d.logger.Warn("tool call failed", "tool", name, "error", err, "duration", time.Since(start))
		return toFailure(name, err), nil
	}
	d.logger.Debug("tool call", "tool", name, "duration", time.Since(start))
	return result, nil
}

// InvokeJSON runs the tool and encodes the result for a tool message.
func (d *Dispatcher) InvokeJSON(ctx context.Context, name string, args json.RawMessage) (string, error) {
	result, err := d.Invoke(ctx, name, args)
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(result)
	if err != nil {
		b, _ = json.Marshal(Failure{Error: err.Error(), Message: "The tool result could not be encoded."})
	}
	return string(b), nil
}

func (d *Dispatcher) run(ctx context.Context, name string, raw json.RawMessage) (any, error) {
	switch name {
	case QueryEvents:
		var a QueryEventsArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return d.events.Events(ctx, a.query())

	case GetCategoryEventCounts:
		var a CategoryCountsArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return d.events.CategoryCounts(ctx, a.query())

	case GetEventCategories:
		var a NoArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return d.events.Categories(ctx)

	case GetTeacherRatings:
		var a TeacherRatingsArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		if strings.TrimSpace(a.TeacherName) == "" {
			return MissingArgument{
				Error:   "Teacher name is required. Please specify a professor's name.",
				Message: "Cannot query by department alone. Please provide a specific professor name.",
			}, nil
		}
		return catalog.TeacherRatings(ctx, d.store, a.TeacherName)

	case GetAssignments:
		var a AssignmentsArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return catalog.Assignments(ctx, d.store, a.Course)

	case SearchCourses:
		var a SearchCoursesArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return catalog.SearchCourses(ctx, d.store, a.CourseCode, a.Instructor)

	case CreateCalendarEvent:
		var a CreateCalendarEventArgs
		if err := decodeArgs(raw, &a); err != nil {
			return nil, err
		}
		return d.createCalendarEvent(ctx, a)
	}
	return nil, fmt.Errorf("%w: %s", ErrToolNotFound, name)
}

func (d *Dispatcher) createCalendarEvent(ctx context.Context, in CreateCalendarEventArgs) (any, error) {
	if d.calendar == nil {
		metrics.Inc(metrics.CalendarUnconfigured)
		return models.CalendarResult{Success: false, Message: calendar.NotConfiguredMessage}, nil
	}
	event, err := d.calendar.CreateEvent(ctx, in)
	switch {
	case errors.Is(err, calendar.ErrNotConfigured):
		metrics.Inc(metrics.CalendarUnconfigured)
		return models.CalendarResult{Success: false, Message: calendar.NotConfiguredMessage}, nil
	case err != nil:
		d.logger.Warn("calendar write failed", "error", err)
		return models.CalendarResult{Success: false, Error: err.Error(), Message: calendarFailureMessage}, nil
	}
	metrics.Inc(metrics.CalendarWrites)
	return models.CalendarResult{Success: true, Event: event, Message: "Calendar event created successfully"}, nil
}

func toFailure(name string, err error) Failure {
	if errors.Is(err, ErrInvalidArguments) {
		return Failure{Error: err.Error(), Message: fmt.Sprintf("The arguments for %s were not valid.", name)}
	}
	return Failure{Error: err.Error(), Message: fmt.Sprintf("The %s tool failed.", name)}
}
