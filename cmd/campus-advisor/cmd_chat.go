package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/chat"
	"github.com/ajitpratap0/campus-advisor/internal/models"
)

func chatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the advisor; without arguments starts an interactive session",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()

			orchestrator, err := newOrchestrator(newDispatcher(newStore(logger), newCalendar(logger), logger), logger)
			if err != nil {
				return fmt.Errorf("chat: %w", err)
			}

			var history []models.Message
			ask := func(text string) error {
				history = append(history, models.Message{Role: models.RoleUser, Content: text})
				reply, runErr := orchestrator.Run(ctx, history)
				if runErr != nil && !errors.Is(runErr, chat.ErrIncomplete) {
					history = history[:len(history)-1]
					return runErr
				}
				history = append(history, reply)
				fmt.Printf("\n%s\n\n", reply.Content)
				return nil
			}

			if len(args) > 0 {
				return ask(strings.Join(args, " "))
			}

			fmt.Println("campus-advisor chat. Type 'exit' or press Ctrl-D to quit.")
			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				switch line {
				case "":
					continue
				case "exit", "quit":
					return nil
				}
				if askErr := ask(line); askErr != nil {
					logger.Error("chat: turn failed", "error", askErr)
					fmt.Fprintf(os.Stderr, "error: %v\n", askErr)
				}
				if ctx.Err() != nil {
					return nil
				}
			}
		},
	}
	return cmd
}
