package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/api"
	advisormcp "github.com/ajitpratap0/campus-advisor/internal/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/JSON API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			logger.Debug("serve: llm settings", "llm", cfg.LLM.String())

			st := newStore(logger)
			cal := newCalendar(logger)
			dispatcher := newDispatcher(st, cal, logger)

			orchestrator, err := newOrchestrator(dispatcher, logger)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}

			mcpSrv, err := advisormcp.NewServer(dispatcher, logger)
			if err != nil {
				return fmt.Errorf("serve: building MCP server: %w", err)
			}

			srv := api.NewServer(st, orchestrator, cal, mcpSrv.HTTPHandler(), logger, cfg.API.AuthToken)

			if cfg.API.AuthToken == "" {
				logger.Warn("HTTP API: auth is DISABLED; set CAMPUS_ADVISOR_API_AUTH_TOKEN or api.auth_token for production use")
			}
			if !cal.Configured() {
				logger.Warn("calendar: no Google credentials; set GOOGLE_OAUTH_CREDENTIALS to enable calendar writes")
			}

			httpSrv := &http.Server{
				Addr:              cfg.API.ListenAddr,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      cfg.LLM.TurnTimeout + 30*time.Second,
				IdleTimeout:       120 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP API server starting", "addr", cfg.API.ListenAddr, "data_dir", cfg.Data.Dir)
				if listenErr := httpSrv.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
					errCh <- fmt.Errorf("serve: HTTP server: %w", listenErr)
				}
				close(errCh)
			}()

			select {
			case <-cmd.Context().Done():
				logger.Info("shutting down")
			case startErr := <-errCh:
				if startErr != nil {
					return startErr
				}
				return nil
			}

			const shutdownTimeout = 10 * time.Second
			if shutdownErr := api.Shutdown(httpSrv, shutdownTimeout); shutdownErr != nil {
				return fmt.Errorf("serve: graceful shutdown: %w", shutdownErr)
			}

			// Drain the errCh in case ListenAndServe returned after Shutdown.
			if startErr := <-errCh; startErr != nil {
				return startErr
			}

			return nil
		},
	}
	return cmd
}
