package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/catalog"
)

func teachersCmd() *cobra.Command {
	var (
		asJSON  bool
		reviews int
	)

	cmd := &cobra.Command{
		Use:   "teachers [name]",
		Short: "Look up professor ratings by name",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			query := strings.Join(args, " ")

			ratings, err := catalog.TeacherRatings(cmd.Context(), newStore(logger), query)
			if err != nil {
				return fmt.Errorf("teachers: %w", err)
			}
			if asJSON {
				return printJSON(ratings)
			}

			for i := range ratings {
				r := &ratings[i]
				fmt.Printf("%s (%s)\n", r.FullName(), r.Department)
				fmt.Printf("  rating %.1f | difficulty %.1f | %d ratings | would take again %.0f%%\n",
					r.AvgRating, r.AvgDifficulty, r.NumRatings, r.WouldTakeAgainPercent)
				for j := range r.Reviews {
					if j == reviews {
						break
					}
					rv := &r.Reviews[j]
					fmt.Printf("  - [%s] %s\n", rv.Class, truncate(rv.Comment, 100))
				}
			}
			if len(ratings) == 0 {
				fmt.Println("No professors found.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the enriched records as JSON")
	cmd.Flags().IntVar(&reviews, "reviews", 3, "reviews to show per professor")
	return cmd
}
