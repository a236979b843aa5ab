package tools

// Tool names known to the dispatcher.
const (
	QueryEvents            = "query_events"
	GetCategoryEventCounts = "get_category_event_counts"
	GetEventCategories     = "get_event_categories"
	GetTeacherRatings      = "get_teacher_ratings"
	GetAssignments         = "get_assignments"
	SearchCourses          = "search_courses"
	CreateCalendarEvent    = "create_calendar_event"
)

// Definition describes one tool to a model or an MCP client.
type Definition struct {
	Name        string
	Description string
	Parameters  Schema
	// ReadOnly tools never change state outside this process.
	ReadOnly bool
}

// definitions is the canonical registry, in the order tools are offered.
var definitions = []Definition{
	{
		Name:        QueryEvents,
		Description: "Query campus events from the BYU events API based on filters.",
		Parameters: object(map[string]any{
			"start_date": prop("string", "Start date (YYYY-MM-DD)"),
			"end_date":   prop("string", "End date (YYYY-MM-DD)"),
			"category":   arrayOf("number", "Event category IDs"),
			"price":      prop("number", "Price filter"),
		}),
		ReadOnly: true,
	},
	{
		Name:        GetCategoryEventCounts,
		Description: "Get a list of the number of events by event category name and ID.",
		Parameters: object(map[string]any{
			"start_date": prop("string", "Start date (YYYY-MM-DD)"),
			"end_date":   prop("string", "End date (YYYY-MM-DD)"),
			"price":      prop("number", "Price filter"),
		}),
		ReadOnly: true,
	},
	{
		Name:        GetEventCategories,
		Description: "Get a list of all event categories with their names and IDs.",
		Parameters:  object(map[string]any{}),
		ReadOnly:    true,
	},
	{
		Name: GetTeacherRatings,
		Description: "Get ratings for BYU teachers with detailed student reviews, comments, tags, and grades. " +
			"Always requires a specific teacher name - cannot query by department.",
		Parameters: object(map[string]any{
			"teacher_name": prop("string", "Teacher's first or last name (REQUIRED - cannot search by department)"),
		}, "teacher_name"),
		ReadOnly: true,
	},
	{
		Name:        GetAssignments,
		Description: "Get current assignments for courses. Optionally filter by course code.",
		Parameters: object(map[string]any{
			"course": prop("string", "Course code (e.g., 'MATH 320')"),
		}),
		ReadOnly: true,
	},
	{
		Name: SearchCourses,
		Description: "Search BYU courses by course code, title, or instructor name. " +
			"Returns course details including sections, times, and locations.",
		Parameters: object(map[string]any{
			"course_code": prop("string", "Course code to search (e.g., 'A HTG 100', 'MATH')"),
			"instructor":  prop("string", "Instructor name to filter by"),
		}),
		ReadOnly: true,
	},
	{
		Name: CreateCalendarEvent,
		Description: "Create a new event in Google Calendar. " +
			"Dates should be in ISO 8601 format (e.g., 2025-10-18T15:00:00-06:00).",
		Parameters: object(map[string]any{
			"summary":     prop("string", "Event title"),
			"description": prop("string", "Event description"),
			"start_time":  prop("string", "Start date/time in ISO 8601 format"),
			"end_time":    prop("string", "End date/time in ISO 8601 format"),
			"location":    prop("string", "Event location"),
			"time_zone":   prop("string", "Time zone (e.g., 'America/Denver'). Default: America/Denver"),
		}, "summary", "start_time", "end_time"),
	},
}

// Definitions returns every registered tool in registration order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Lookup returns the definition for name.
func Lookup(name string) (Definition, bool) {
	for _, d := range definitions {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}
