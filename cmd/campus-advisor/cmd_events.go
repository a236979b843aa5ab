package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/events"
)

func eventsCmd() *cobra.Command {
	var (
		start      string
		end        string
		categories []float64
		price      float64
		counts     bool
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Query the campus events API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			client := newEvents(logger)

			q := events.Query{StartDate: start, EndDate: end, Categories: categories}
			if cmd.Flags().Changed("price") {
				q.Price = &price
			}

			var (
				doc json.RawMessage
				err error
			)
			switch {
			case list:
				doc, err = client.Categories(ctx)
			case counts:
				doc, err = client.CategoryCounts(ctx, q)
			default:
				doc, err = client.Events(ctx, q)
			}
			if err != nil {
				return fmt.Errorf("events: %w", err)
			}

			if _, err := os.Stdout.Write(append(doc, '\n')); err != nil {
				return fmt.Errorf("events: writing output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD)")
	cmd.Flags().Float64SliceVar(&categories, "category", nil, "category IDs (repeatable)")
	cmd.Flags().Float64Var(&price, "price", 0, "price filter")
	cmd.Flags().BoolVar(&counts, "counts", false, "show event counts per category")
	cmd.Flags().BoolVar(&list, "categories", false, "list all event categories")
	return cmd
}
