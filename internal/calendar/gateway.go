package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// ErrNotConfigured is returned when no calendar credentials are configured.
var ErrNotConfigured = errors.New("calendar is not configured")

// NotConfiguredMessage tells the user how to enable calendar writes.
const NotConfiguredMessage = "Google Calendar is not configured. To enable:\n" +
	"1. Create OAuth credentials at https://console.cloud.google.com\n" +
	"2. Set GOOGLE_OAUTH_CREDENTIALS in .env.local\n" +
	"3. Make sure the calendar MCP server command (npx @cocal/google-calendar-mcp) is installed"

// Defaults for the calendar server subprocess.
const (
	DefaultCommand  = "npx"
	DefaultTimeZone = "America/Denver"
	DefaultTimeout  = 45 * time.Second
)

// DefaultArgs launches the Google Calendar MCP server package.
var DefaultArgs = []string{"@cocal/google-calendar-mcp"}

// Config describes how to reach the calendar server.
type Config struct {
	CredentialsPath string
	Command         string
	Args            []string
	TimeZone        string
	Timeout         time.Duration
}

// Connector opens a calendar session.
type Connector func(ctx context.Context, cfg Config) (Client, error)

// Gateway gates calendar access on configuration and scopes every operation
// to its own session: connect on use, close on every exit path.
type Gateway struct {
	cfg     Config
	connect Connector
	logger  *slog.Logger
}

// NewGateway creates a Gateway. A nil connector uses Connect.
func NewGateway(cfg Config, connect Connector, logger *slog.Logger) *Gateway {
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if len(cfg.Args) == 0 {
		cfg.Args = DefaultArgs
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = DefaultTimeZone
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if connect == nil {
		connect = Connect
	}
	return &Gateway{cfg: cfg, connect: connect, logger: logger}
}

// Configured reports whether credentials are available.
func (g *Gateway) Configured() bool {
	return strings.TrimSpace(g.cfg.CredentialsPath) != ""
}

// TimeZone returns the zone applied to events without one.
func (g *Gateway) TimeZone() string {
	return g.cfg.TimeZone
}

// EventInput is the flat form in which callers describe a new event.
type EventInput struct {
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Location    string `json:"location,omitempty"`
	TimeZone    string `json:"time_zone,omitempty"`
}

// Validate checks the required fields.
func (in EventInput) Validate() error {
	var missing []string
	if strings.TrimSpace(in.Summary) == "" {
		missing = append(missing, "summary")
	}
	if strings.TrimSpace(in.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Request converts the input into a create-event payload.
func (g *Gateway) Request(in EventInput) models.CalendarEventRequest {
	tz := in.TimeZone
	if tz == "" {
		tz = g.cfg.TimeZone
	}
	return models.CalendarEventRequest{
		Summary:     in.Summary,
		Description: in.Description,
		Start:       models.EventTime{DateTime: in.StartTime, TimeZone: tz},
		End:         models.EventTime{DateTime: in.EndTime, TimeZone: tz},
		Location:    in.Location,
	}
}

// CreateEvent creates an event and returns the server's event payload.
func (g *Gateway) CreateEvent(ctx context.Context, in EventInput) (any, error) {
	if !g.Configured() {
		return nil, ErrNotConfigured
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	req := g.Request(in)
	var out any
	err := g.withClient(ctx, func(ctx context.Context, c Client) error {
		var callErr error
		out, callErr = c.CreateEvent(ctx, req)
		return callErr
	})
	if err != nil {
		return nil, err
	}
	g.logger.Info("calendar: event created", "summary", req.Summary, "start", req.Start.DateTime)
	return out, nil
}

// ListEvents lists events in a time window.
func (g *Gateway) ListEvents(ctx context.Context, params ListEventsParams) (any, error) {
	var out any
	err := g.withClient(ctx, func(ctx context.Context, c Client) error {
		var callErr error
		out, callErr = c.ListEvents(ctx, params)
		return callErr
	})
	return out, err
}

// DeleteEvent removes an event.
func (g *Gateway) DeleteEvent(ctx context.Context, params DeleteEventParams) (any, error) {
	if strings.TrimSpace(params.EventID) == "" {
		return nil, errors.New("event id is required")
	}
	var out any
	err := g.withClient(ctx, func(ctx context.Context, c Client) error {
		var callErr error
		out, callErr = c.DeleteEvent(ctx, params)
		return callErr
	})
	return out, err
}

// GetFreeBusy reports busy blocks.
func (g *Gateway) GetFreeBusy(ctx context.Context, params FreeBusyParams) (any, error) {
	if params.TimeZone == "" {
		params.TimeZone = g.cfg.TimeZone
	}
	var out any
	err := g.withClient(ctx, func(ctx context.Context, c Client) error {
		var callErr error
		out, callErr = c.GetFreeBusy(ctx, params)
		return callErr
	})
	return out, err
}

// withClient runs fn with a fresh session bounded by the configured timeout.
func (g *Gateway) withClient(ctx context.Context, fn func(context.Context, Client) error) error {
	if !g.Configured() {
		return ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	c, err := g.connect(ctx, g.cfg)
	if err != nil {
		return fmt.Errorf("connecting to calendar server: %w", err)
	}
	defer func() {
		if closeErr := c.Close(); closeErr != nil {
			g.logger.Warn("calendar: closing session", "error", closeErr)
		}
	}()
	return fn(ctx, c)
}
