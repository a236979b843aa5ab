package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/store"
)

// DefaultSummaryLimit bounds SearchSummaries when no limit is given.
const DefaultSummaryLimit = 50

// defaultCredits is used when credit_hours does not parse.
const defaultCredits = 3

var (
	departmentPattern = regexp.MustCompile(`^[A-Za-z\s]+`)
	numberPattern     = regexp.MustCompile(`\d+`)
	creditsPattern    = regexp.MustCompile(`^\s*(\d+)`)
)

// SearchSummaries matches q against course codes, titles and section
// instructors and returns up to limit display summaries. A blank query
// returns no courses.
func SearchSummaries(ctx context.Context, st store.Store, q string, limit int) ([]models.CourseSummary, error) {
	query := normalizeSpaces(q)
	if query == "" {
		return []models.CourseSummary{}, nil
	}
	if limit <= 0 {
		limit = DefaultSummaryLimit
	}

	courses, err := st.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	out := make([]models.CourseSummary, 0)
	for i := range courses {
		if len(out) == limit {
			break
		}
		if courseMatches(&courses[i], query) {
			out = append(out, Summarize(courses[i]))
		}
	}
	return out, nil
}

func courseMatches(c *models.Course, query string) bool {
	if strings.Contains(normalizeSpaces(c.CourseName), query) ||
		strings.Contains(strings.ToLower(c.FullTitle), query) {
		return true
	}
	for _, s := range c.Sections {
		if s.InstructorName != "" && strings.Contains(strings.ToLower(s.InstructorName), query) {
			return true
		}
	}
	return false
}

// normalizeSpaces lowercases s and collapses whitespace runs to one space.
func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Summarize derives the display projection of a course.
func Summarize(c models.Course) models.CourseSummary {
	department := strings.TrimSpace(departmentPattern.FindString(c.CourseName))
	if department == "" {
		if f := strings.Fields(c.CourseName); len(f) > 0 {
			department = f[0]
		}
	}

	return models.CourseSummary{
		ID:            c.CurriculumID,
		Code:          c.CourseName,
		Name:          c.FullTitle,
		Credits:       Credits(c.CreditHours),
		Description:   fmt.Sprintf("%s - %s course", c.FullTitle, department),
		Prerequisites: []string{},
		Instructors:   instructors(c.Sections),
		Schedule:      schedule(c.Sections),
		Department:    department,
		Level:         Level(c.CourseName),
		Sections:      summarizeSections(c.Sections),
	}
}

// Credits reads the leading integer of a credit_hours value such as "3.0"
// or "1-3", falling back to 3 when there is none or it is zero.
func Credits(creditHours string) int {
	m := creditsPattern.FindStringSubmatch(creditHours)
	if m == nil {
		return defaultCredits
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n == 0 {
		return defaultCredits
	}
	return n
}

// Level classifies a course by the first number in its code.
func Level(courseName string) string {
	n, _ := strconv.Atoi(numberPattern.FindString(courseName))
	switch {
	case n >= 500:
		return "Graduate"
	case n >= 400:
		return "Senior"
	case n >= 300:
		return "Junior"
	case n >= 200:
		return "Sophomore"
	case n >= 100:
		return "Freshman"
	default:
		return "Introductory"
	}
}

func instructors(sections []models.Section) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range sections {
		name := s.InstructorName
		if strings.TrimSpace(name) == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	if len(out) == 0 {
		return []string{"TBA"}
	}
	return out
}

func schedule(sections []models.Section) string {
	for _, s := range sections {
		if len(s.Times) == 0 {
			continue
		}
		slots := make([]string, 0, len(s.Times))
		for _, t := range s.Times {
			slots = append(slots, fmt.Sprintf("%s %s-%s", t.Days, t.StartTime, t.EndTime))
		}
		return strings.Join(slots, ", ")
	}
	return "Schedule TBD"
}

func summarizeSections(sections []models.Section) []models.SectionSummary {
	out := make([]models.SectionSummary, 0, len(sections))
	for _, s := range sections {
		times := make([]models.MeetingSummary, 0, len(s.Times))
		for _, t := range s.Times {
			times = append(times, models.MeetingSummary{
				Days:      t.Days,
				StartTime: t.StartTime,
				EndTime:   t.EndTime,
				Building:  t.Building,
				Room:      t.Room,
			})
		}
		out = append(out, models.SectionSummary{
			SectionNumber:  s.SectionNumber,
			InstructorName: s.InstructorName,
			Mode:           s.Mode,
			Times:          times,
		})
	}
	return out
}
