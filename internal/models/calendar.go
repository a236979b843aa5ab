package models

// EventTime is a calendar boundary in ISO 8601 with an IANA zone name.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

// CalendarEventRequest is the payload handed to the calendar server's
// create-event tool.
type CalendarEventRequest struct {
	CalendarID  string    `json:"calendarId,omitempty"`
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
	Location    string    `json:"location,omitempty"`
}

// CalendarResult is the outcome reported for a calendar write, either to the
// model as a tool result or to an HTTP client.
type CalendarResult struct {
	Success bool   `json:"success"`
	Event   any    `json:"event,omitempty"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
