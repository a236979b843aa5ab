package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/chat"
	"github.com/ajitpratap0/campus-advisor/internal/config"
	"github.com/ajitpratap0/campus-advisor/internal/events"
	"github.com/ajitpratap0/campus-advisor/internal/llm"
	"github.com/ajitpratap0/campus-advisor/internal/store"
	"github.com/ajitpratap0/campus-advisor/internal/tools"
)

var cfg *config.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	rootCmd := &cobra.Command{
		Use:   "campus-advisor",
		Short: "Campus advisor: course, professor, event and calendar assistant for students",
		Long:  "campus-advisor serves class assignments, campus events, course search and professor ratings, and an LLM chat that can look them up and add events to Google Calendar.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return nil
		},
	}

	rootCmd.AddCommand(
		serveCmd(),
		mcpCmd(),
		chatCmd(),
		teachersCmd(),
		coursesCmd(),
		assignmentsCmd(),
		eventsCmd(),
		calendarCmd(),
	)

	rootCmd.SetContext(ctx)

	err := rootCmd.Execute()
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if cfg != nil {
		switch strings.ToLower(cfg.Logging.Level) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func newStore(logger *slog.Logger) store.Store {
	return store.NewFileStore(cfg.Data.Dir, logger)
}

func newEvents(logger *slog.Logger) *events.Client {
	return events.NewClient(cfg.Events.BaseURL, cfg.Events.Timeout, logger)
}

func newCalendar(logger *slog.Logger) *calendar.Gateway {
	return calendar.NewGateway(calendar.Config{
		CredentialsPath: cfg.Calendar.Credentials,
		Command:         cfg.Calendar.Command,
		Args:            cfg.Calendar.Args,
		TimeZone:        cfg.Calendar.TimeZone,
		Timeout:         cfg.Calendar.Timeout,
	}, nil, logger)
}

func newDispatcher(st store.Store, cal *calendar.Gateway, logger *slog.Logger) *tools.Dispatcher {
	return tools.NewDispatcher(st, newEvents(logger), cal, logger)
}

func newOrchestrator(dispatcher *tools.Dispatcher, logger *slog.Logger) (*chat.Orchestrator, error) {
	completer, err := llm.NewCompleter(cfg.LLM, logger)
	if err != nil {
		return nil, err
	}
	return chat.NewOrchestrator(completer, dispatcher, chat.Options{
		MaxRounds:   cfg.LLM.MaxRounds,
		TurnTimeout: cfg.LLM.TurnTimeout,
	}, logger), nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen]) + "..."
	}
	return s
}
