// Package calendar talks to an external Google Calendar MCP server over a
// stdio subprocess. The server itself is a third-party package; this package
// only owns connection lifetime and the four calendar tool calls.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	mcpclient "github.com/mark3labs/mcp-go/client"
	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// Tool names exposed by the calendar MCP server.
const (
	ToolListEvents  = "list-events"
	ToolCreateEvent = "create-event"
	ToolDeleteEvent = "delete-event"
	ToolGetFreeBusy = "get-freebusy"
)

// RequiredTools must all be advertised by the server for Connect to succeed.
var RequiredTools = []string{ToolListEvents, ToolCreateEvent, ToolDeleteEvent, ToolGetFreeBusy}

// credentialsEnv is the variable the calendar server reads its OAuth keys from.
const credentialsEnv = "GOOGLE_OAUTH_CREDENTIALS"

// Client is the calendar capability used by the rest of the application.
type Client interface {
	CreateEvent(ctx context.Context, req models.CalendarEventRequest) (any, error)
	ListEvents(ctx context.Context, params ListEventsParams) (any, error)
	DeleteEvent(ctx context.Context, params DeleteEventParams) (any, error)
	GetFreeBusy(ctx context.Context, params FreeBusyParams) (any, error)
	Close() error
}

// ListEventsParams filters list-events. Times are ISO 8601.
type ListEventsParams struct {
	CalendarID string `json:"calendarId,omitempty"`
	TimeMin    string `json:"timeMin,omitempty"`
	TimeMax    string `json:"timeMax,omitempty"`
	Query      string `json:"query,omitempty"`
}

// DeleteEventParams identifies one event.
type DeleteEventParams struct {
	CalendarID string `json:"calendarId,omitempty"`
	EventID    string `json:"eventId"`
}

// FreeBusyParams asks for busy blocks across calendars.
type FreeBusyParams struct {
	Calendars []FreeBusyCalendar `json:"calendars"`
	TimeMin   string             `json:"timeMin"`
	TimeMax   string             `json:"timeMax"`
	TimeZone  string             `json:"timeZone,omitempty"`
}

// FreeBusyCalendar names one calendar in a free/busy query.
type FreeBusyCalendar struct {
	ID string `json:"id"`
}

// session is the subset of the mcp-go client used here.
type session interface {
	Initialize(ctx context.Context, req mcpgo.InitializeRequest) (*mcpgo.InitializeResult, error)
	ListTools(ctx context.Context, req mcpgo.ListToolsRequest) (*mcpgo.ListToolsResult, error)
	CallTool(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error)
	Close() error
}

// MCPClient is a Client backed by an MCP session.
type MCPClient struct {
	s session
}

// Connect starts the calendar server subprocess, performs the MCP handshake
// and checks that every required tool is available. The subprocess is
// terminated if any step fails.
func Connect(ctx context.Context, cfg Config) (Client, error) {
	env := append(os.Environ(), credentialsEnv+"="+cfg.CredentialsPath)
	c, err := mcpclient.NewStdioMCPClient(cfg.Command, env, cfg.Args...)
	if err != nil {
		return nil, fmt.Errorf("starting calendar server %q: %w", cfg.Command, err)
	}
	mc, err := newMCPClient(ctx, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return mc, nil
}

// newMCPClient initializes s and verifies the advertised tools.
func newMCPClient(ctx context.Context, s session) (*MCPClient, error) {
	initReq := mcpgo.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcpgo.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcpgo.Implementation{Name: "campus-advisor-calendar", Version: "1.0.0"}
	if _, err := s.Initialize(ctx, initReq); err != nil {
		return nil, fmt.Errorf("initializing calendar session: %w", err)
	}

	tools, err := s.ListTools(ctx, mcpgo.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("listing calendar tools: %w", err)
	}
	available := make(map[string]bool, len(tools.Tools))
	names := make([]string, 0, len(tools.Tools))
	for i := range tools.Tools {
		available[tools.Tools[i].Name] = true
		names = append(names, tools.Tools[i].Name)
	}
	var missing []string
	for _, want := range RequiredTools {
		if !available[want] {
			missing = append(missing, want)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("calendar server missing tools: %s (available: %s)",
			strings.Join(missing, ", "), strings.Join(names, ", "))
	}
	return &MCPClient{s: s}, nil
}

func (c *MCPClient) CreateEvent(ctx context.Context, req models.CalendarEventRequest) (any, error) {
	return c.call(ctx, ToolCreateEvent, req)
}

func (c *MCPClient) ListEvents(ctx context.Context, params ListEventsParams) (any, error) {
	return c.call(ctx, ToolListEvents, params)
}

func (c *MCPClient) DeleteEvent(ctx context.Context, params DeleteEventParams) (any, error) {
	return c.call(ctx, ToolDeleteEvent, params)
}

func (c *MCPClient) GetFreeBusy(ctx context.Context, params FreeBusyParams) (any, error) {
	return c.call(ctx, ToolGetFreeBusy, params)
}

// Close terminates the session and its subprocess.
func (c *MCPClient) Close() error {
	return c.s.Close()
}

// call invokes a tool with args converted to a JSON object and decodes the
// returned content blocks.
func (c *MCPClient) call(ctx context.Context, name string, args any) (any, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("encoding %s arguments: %w", name, err)
	}
	var argMap map[string]any
	if err := json.Unmarshal(b, &argMap); err != nil {
		return nil, fmt.Errorf("encoding %s arguments: %w", name, err)
	}

	req := mcpgo.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = argMap

	res, err := c.s.CallTool(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("calling %s: %w", name, err)
	}
	content := decodeContent(res.Content)
	if res.IsError {
		return nil, fmt.Errorf("%s failed: %s", name, contentText(res.Content))
	}
	return content, nil
}

// decodeContent turns content blocks into JSON-friendly values. Text blocks
// holding JSON are decoded so callers see structured data.
func decodeContent(blocks []mcpgo.Content) []any {
	out := make([]any, 0, len(blocks))
	for _, b := range blocks {
		tc, ok := mcpgo.AsTextContent(b)
		if !ok {
			out = append(out, b)
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(tc.Text), &v); err == nil {
			out = append(out, v)
			continue
		}
		out = append(out, tc.Text)
	}
	return out
}

func contentText(blocks []mcpgo.Content) string {
	var parts []string
	for _, b := range blocks {
		if tc, ok := mcpgo.AsTextContent(b); ok {
			parts = append(parts, tc.Text)
		}
	}
	if len(parts) == 0 {
		return "no details returned"
	}
	return strings.Join(parts, "; ")
}
