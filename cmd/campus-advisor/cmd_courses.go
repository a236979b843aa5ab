package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajitpratap0/campus-advisor/internal/catalog"
)

func coursesCmd() *cobra.Command {
	var (
		instructor string
		limit      int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "courses [query]",
		Short: "Search the course catalog",
		Long: `Search the course catalog by course code, title or instructor.

With --instructor the raw catalog records are filtered section by section,
the same way the chat assistant's search_courses tool does.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			ctx := cmd.Context()
			st := newStore(logger)
			query := strings.Join(args, " ")

			if instructor != "" {
				courses, err := catalog.SearchCourses(ctx, st, query, instructor)
				if err != nil {
					return fmt.Errorf("courses: %w", err)
				}
				if asJSON {
					return printJSON(courses)
				}
				for i := range courses {
					c := &courses[i]
					fmt.Printf("%s  %s\n", c.CourseName, c.FullTitle)
					for _, s := range c.Sections {
						fmt.Printf("  section %s  %s  %s\n", s.SectionNumber, s.InstructorName, s.Mode)
					}
				}
				if len(courses) == 0 {
					fmt.Println("No courses found.")
				}
				return nil
			}

			summaries, err := catalog.SearchSummaries(ctx, st, query, limit)
			if err != nil {
				return fmt.Errorf("courses: %w", err)
			}
			if asJSON {
				return printJSON(summaries)
			}
			for i := range summaries {
				s := &summaries[i]
				fmt.Printf("%-10s %s (%d cr, %s)\n", s.Code, s.Name, s.Credits, s.Level)
				fmt.Printf("           %s | %s\n", strings.Join(s.Instructors, ", "), s.Schedule)
			}
			if len(summaries) == 0 {
				fmt.Println("No courses found.")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&instructor, "instructor", "", "only keep sections taught by this instructor")
	cmd.Flags().IntVar(&limit, "limit", catalog.DefaultSummaryLimit, "max results")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	return cmd
}
