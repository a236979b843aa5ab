// Package metrics provides application-level counters using stdlib expvar.
// Counters are exported on the /debug/vars HTTP endpoint by the serve command.
package metrics

import "expvar"

// Operation counters.
var (
	ChatTotal            = expvar.NewInt("advisor_chat_total")
	ChatRounds           = expvar.NewInt("advisor_chat_rounds_total")
	ChatIncomplete       = expvar.NewInt("advisor_chat_incomplete_total")
	ChatErrors           = expvar.NewInt("advisor_chat_errors_total")
	ToolCallsTotal       = expvar.NewInt("advisor_tool_calls_total")
	ToolFailures         = expvar.NewInt("advisor_tool_failures_total")
	ToolNotFound         = expvar.NewInt("advisor_tool_not_found_total")
	CalendarWrites       = expvar.NewInt("advisor_calendar_writes_total")
	CalendarUnconfigured = expvar.NewInt("advisor_calendar_unconfigured_total")
)

// Inc increments the given counter by 1.
func Inc(counter *expvar.Int) { counter.Add(1) }
