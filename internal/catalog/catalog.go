// Package catalog implements the filtered queries over the reference
// documents: professor ratings, assignments and the course catalog.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/namematch"
	"github.com/ajitpratap0/campus-advisor/internal/store"
)

// maxReviews caps how many reviews are attached to an enriched rating.
const maxReviews = 10

// reviewTagSeparator splits the raw ratingTags string of a review.
const reviewTagSeparator = "--"

// TeacherRatings returns every rating whose name matches query, each joined
// with its review entry. An empty query returns every rating.
func TeacherRatings(ctx context.Context, st store.Store, query string) ([]models.EnrichedRating, error) {
	var (
		ratings []models.TeacherRating
		reviews []models.ProfessorReviews
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ratings, err = st.TeacherRatings(gctx)
		if err != nil {
			return fmt.Errorf("loading teacher ratings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		reviews, err = st.ProfessorReviews(gctx)
		if err != nil {
			return fmt.Errorf("loading professor reviews: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	filterByName := strings.TrimSpace(query) != ""
	out := make([]models.EnrichedRating, 0, len(ratings))
	for i := range ratings {
		r := &ratings[i]
		if filterByName && !namematch.Matches(r.FirstName, r.LastName, query) {
			continue
		}
		out = append(out, Enrich(*r, reviews))
	}
	return out, nil
}

// Enrich joins a rating with the first review entry whose first and last
// names equal the rating's, ignoring case. Without a match the rating gets
// empty tag and review lists.
func Enrich(r models.TeacherRating, reviews []models.ProfessorReviews) models.EnrichedRating {
	out := models.EnrichedRating{
		TeacherRating:  r,
		AggregatedTags: []models.RatingTag{},
		Reviews:        []models.Review{},
	}
	for i := range reviews {
		node := &reviews[i].Data.Node
		if !strings.EqualFold(node.FirstName, r.FirstName) || !strings.EqualFold(node.LastName, r.LastName) {
			continue
		}
		out.AggregatedTags = append(out.AggregatedTags, node.TeacherRatingTags...)
		for j := range node.Ratings.Edges {
			if len(out.Reviews) == maxReviews {
				break
			}
			out.Reviews = append(out.Reviews, toReview(node.Ratings.Edges[j].Node))
		}
		break
	}
	return out
}

func toReview(raw models.RawReview) models.Review {
	tags := []string{}
	for _, t := range strings.Split(raw.RatingTags, reviewTagSeparator) {
		if strings.TrimSpace(t) != "" {
			tags = append(tags, t)
		}
	}
	return models.Review{
		Class:               raw.Class,
		Comment:             raw.Comment,
		Grade:               raw.Grade,
		Date:                raw.Date,
		ClarityRating:       raw.ClarityRating,
		HelpfulRating:       raw.HelpfulRating,
		DifficultyRating:    raw.DifficultyRating,
		WouldTakeAgain:      raw.WouldTakeAgain,
		Tags:                tags,
		AttendanceMandatory: raw.AttendanceMandatory,
	}
}

// Assignments returns the assignment feed, keeping only events whose course
// contains course (case-insensitive). A blank course returns the whole feed.
func Assignments(ctx context.Context, st store.Store, course string) (*models.AssignmentFeed, error) {
	feed, err := st.Assignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}
	needle := strings.ToLower(strings.TrimSpace(course))
	if needle == "" {
		return feed, nil
	}
	filtered := make([]models.Assignment, 0, len(feed.Events))
	for _, ev := range feed.Events {
		if strings.Contains(strings.ToLower(ev.Course), needle) {
			filtered = append(filtered, ev)
		}
	}
	return &models.AssignmentFeed{Meta: feed.Meta, Events: filtered}, nil
}

// SearchCourses filters the catalog by course code or title and, separately,
// narrows each course's sections to those taught by instructor. Courses left
// with no sections after the instructor filter are dropped. Blank arguments
// apply no filter.
func SearchCourses(ctx context.Context, st store.Store, courseCode, instructor string) ([]models.Course, error) {
	courses, err := st.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	if code := strings.ToLower(strings.TrimSpace(courseCode)); code != "" {
		kept := make([]models.Course, 0, len(courses))
		for i := range courses {
			c := &courses[i]
			if strings.Contains(strings.ToLower(c.CourseName), code) ||
				strings.Contains(strings.ToLower(c.FullTitle), code) {
				kept = append(kept, *c)
			}
		}
		courses = kept
	}

	if who := strings.ToLower(strings.TrimSpace(instructor)); who != "" {
		kept := make([]models.Course, 0, len(courses))
		for i := range courses {
			c := courses[i]
			sections := make([]models.Section, 0, len(c.Sections))
			for _, s := range c.Sections {
				if strings.Contains(strings.ToLower(s.InstructorName), who) {
					sections = append(sections, s)
				}
			}
			if len(sections) == 0 {
				continue
			}
			c.Sections = sections
			kept = append(kept, c)
		}
		courses = kept
	}

	if courses == nil {
		courses = []models.Course{}
	}
	return courses, nil
}
