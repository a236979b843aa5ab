package tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/events"
)

// ErrInvalidArguments is returned when tool arguments do not match the schema.
var ErrInvalidArguments = errors.New("invalid tool arguments")

// QueryEventsArgs are the arguments of query_events.
type QueryEventsArgs struct {
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Category  []float64 `json:"category"`
	Price     *float64  `json:"price"`
}

func (a QueryEventsArgs) query() events.Query {
	return events.Query{StartDate: a.StartDate, EndDate: a.EndDate, Categories: a.Category, Price: a.Price}
}

// CategoryCountsArgs are the arguments of get_category_event_counts.
type CategoryCountsArgs struct {
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Price     *float64 `json:"price"`
}

func (a CategoryCountsArgs) query() events.Query {
	return events.Query{StartDate: a.StartDate, EndDate: a.EndDate, Price: a.Price}
}

// NoArgs is used by tools without parameters.
type NoArgs struct{}

// TeacherRatingsArgs are the arguments of get_teacher_ratings.
type TeacherRatingsArgs struct {
	TeacherName string `json:"teacher_name"`
}

// AssignmentsArgs are the arguments of get_assignments.
type AssignmentsArgs struct {
	Course string `json:"course"`
}

// SearchCoursesArgs are the arguments of search_courses.
type SearchCoursesArgs struct {
	CourseCode string `json:"course_code"`
	Instructor string `json:"instructor"`
}

// CreateCalendarEventArgs are the arguments of create_calendar_event.
type CreateCalendarEventArgs = calendar.EventInput

// decodeArgs strictly decodes a JSON object into dst. Unknown fields,
// trailing data and non-object payloads are rejected.
func decodeArgs(raw json.RawMessage, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		trimmed = []byte("{}")
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: arguments must be a JSON object", ErrInvalidArguments)
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidArguments, err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after arguments", ErrInvalidArguments)
	}
	return nil
}
