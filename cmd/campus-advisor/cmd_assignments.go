package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/catalog"
)

func assignmentsCmd() *cobra.Command {
	var (
		course string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "assignments",
		Short: "List current class assignments",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			feed, err := catalog.Assignments(cmd.Context(), newStore(logger), course)
			if err != nil {
				return fmt.Errorf("assignments: %w", err)
			}
			if asJSON {
				return printJSON(feed)
			}

			for _, a := range feed.Events {
				fmt.Printf("%-12s %-12s %s\n", a.DueDate, a.Course, a.Assignment)
			}
			if len(feed.Events) == 0 {
				fmt.Println("No assignments found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&course, "course", "", "filter by course name (case-insensitive substring)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the feed as JSON")
	return cmd
}
