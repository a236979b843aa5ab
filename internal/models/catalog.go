package models

import (
	"encoding/json"
	"fmt"
)

// Course is one catalog entry from courses.json.
type Course struct {
	CourseName   string    `json:"course_name"`
	FullTitle    string    `json:"full_title"`
	CurriculumID string    `json:"curriculum_id"`
	CreditHours  string    `json:"credit_hours"`
	Sections     []Section `json:"sections"`
}

// Section is one offering of a course.
type Section struct {
	SectionNumber  string        `json:"section_number"`
	InstructorName string        `json:"instructor_name"`
	Mode           string        `json:"mode"`
	Times          []MeetingTime `json:"times"`
}

// MeetingTime is a weekly meeting slot. Times is null for online sections.
type MeetingTime struct {
	Days      string `json:"days"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Building  string `json:"building"`
	Room      string `json:"room"`
}

// CourseSummary is the display projection served by the course search endpoint.
type CourseSummary struct {
	ID            string           `json:"id"`
	Code          string           `json:"code"`
	Name          string           `json:"name"`
	Credits       int              `json:"credits"`
	Description   string           `json:"description"`
	Prerequisites []string         `json:"prerequisites"`
	Instructors   []string         `json:"instructors"`
	Schedule      string           `json:"schedule"`
	Department    string           `json:"department"`
	Level         string           `json:"level"`
	Sections      []SectionSummary `json:"sections"`
}

// SectionSummary mirrors Section with camel-cased keys and non-null times.
type SectionSummary struct {
	SectionNumber  string           `json:"sectionNumber"`
	InstructorName string           `json:"instructorName"`
	Mode           string           `json:"mode"`
	Times          []MeetingSummary `json:"times"`
}

// MeetingSummary mirrors MeetingTime with camel-cased keys.
type MeetingSummary struct {
	Days      string `json:"days"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Building  string `json:"building"`
	Room      string `json:"room"`
}

// Assignment is one due item from the class calendar feed. Keys the feed
// carries beyond the three string fields, and those fields when they are not
// strings (a null due_date, say), are kept verbatim in Extra.
type Assignment struct {
	Assignment string `json:"assignment"`
	DueDate    string `json:"due_date"`
	Course     string `json:"course"`

	Extra map[string]json.RawMessage `json:"-"`
}

// MarshalJSON writes Extra back alongside the string fields. A key held in
// Extra wins over the zero-valued field of the same name.
func (a Assignment) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.Extra)+3)
	for k, v := range a.Extra {
		out[k] = v
	}
	for k, v := range map[string]string{
		"assignment": a.Assignment,
		"due_date":   a.DueDate,
		"course":     a.Course,
	} {
		if _, ok := out[k]; !ok {
			out[k] = v
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON fills the string fields and keeps everything else in Extra.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding assignment: %w", err)
	}
	*a = Assignment{}
	for k, dst := range map[string]*string{
		"assignment": &a.Assignment,
		"due_date":   &a.DueDate,
		"course":     &a.Course,
	} {
		v, ok := raw[k]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil || string(v) == "null" {
			continue
		}
		delete(raw, k)
	}
	if len(raw) > 0 {
		a.Extra = raw
	}
	return nil
}

// AssignmentFeed is the assignments document. Keys other than "events" are
// carried through untouched so filtered responses keep the feed metadata.
type AssignmentFeed struct {
	Meta   map[string]json.RawMessage
	Events []Assignment
}

// MarshalJSON writes the metadata keys back alongside "events".
func (f AssignmentFeed) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(f.Meta)+1)
	for k, v := range f.Meta {
		out[k] = v
	}
	events := f.Events
	if events == nil {
		events = []Assignment{}
	}
	out["events"] = events
	return json.Marshal(out)
}

// UnmarshalJSON splits "events" from the remaining metadata keys.
func (f *AssignmentFeed) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decoding assignment feed: %w", err)
	}
	f.Events = nil
	if ev, ok := raw["events"]; ok {
		if err := json.Unmarshal(ev, &f.Events); err != nil {
			return fmt.Errorf("decoding assignment events: %w", err)
		}
		delete(raw, "events")
	}
	f.Meta = raw
	return nil
}
