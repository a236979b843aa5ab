package store

import (
	"context"
	"errors"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// ErrNotFound is returned when a reference document does not exist.
var ErrNotFound = errors.New("document not found")

// Store defines read-only access to the reference documents. Every call
// returns freshly loaded data; implementations must not cache across calls.
type Store interface {
	// TeacherRatings returns every professor rating row.
	TeacherRatings(ctx context.Context) ([]models.TeacherRating, error)

	// ProfessorReviews returns the scraped review document.
	ProfessorReviews(ctx context.Context) ([]models.ProfessorReviews, error)

	// Assignments returns the current assignment feed.
	Assignments(ctx context.Context) (*models.AssignmentFeed, error)

	// Courses returns the full course catalog.
	Courses(ctx context.Context) ([]models.Course, error)
}

// Document file names inside the data directory.
const (
	TeacherRatingsFile   = "teacher_ratings.json"
	ProfessorReviewsFile = "professor_reviews.json"
	AssignmentsFile      = "current_assignments.json"
	CoursesFile          = "courses.json"
)
