package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// MockStore is an in-memory implementation of Store for testing.
// Reads return deep copies so callers can never mutate stored data.
type MockStore struct {
	mu          sync.RWMutex
	ratings     []models.TeacherRating
	reviews     []models.ProfessorReviews
	assignments *models.AssignmentFeed
	courses     []models.Course

	// Err, when set, is returned by every read.
	Err error

	calls map[string]int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{calls: make(map[string]int)}
}

// SetTeacherRatings replaces the ratings document.
func (m *MockStore) SetTeacherRatings(r []models.TeacherRating) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings = r
}

// SetProfessorReviews replaces the review document.
func (m *MockStore) SetProfessorReviews(r []models.ProfessorReviews) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reviews = r
}

// SetAssignments replaces the assignment feed.
func (m *MockStore) SetAssignments(f *models.AssignmentFeed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments = f
}

// SetCourses replaces the course catalog.
func (m *MockStore) SetCourses(c []models.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = c
}

// Calls returns how many times the named document was read.
func (m *MockStore) Calls(doc string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[doc]
}

func (m *MockStore) TeacherRatings(_ context.Context) ([]models.TeacherRating, error) {
	var out []models.TeacherRating
	if err := m.read(TeacherRatingsFile, m.ratings, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockStore) ProfessorReviews(_ context.Context) ([]models.ProfessorReviews, error) {
	var out []models.ProfessorReviews
	if err := m.read(ProfessorReviewsFile, m.reviews, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockStore) Assignments(_ context.Context) (*models.AssignmentFeed, error) {
	m.mu.RLock()
	missing := m.assignments == nil
	m.mu.RUnlock()
	if missing && m.Err == nil {
		m.count(AssignmentsFile)
		return nil, fmt.Errorf("%s: %w", AssignmentsFile, ErrNotFound)
	}
	var out models.AssignmentFeed
	if err := m.read(AssignmentsFile, m.assignments, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (m *MockStore) Courses(_ context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := m.read(CoursesFile, m.courses, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MockStore) count(doc string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[doc]++
}

// read deep-copies src into dst through a JSON round trip.
func (m *MockStore) read(doc string, src, dst any) error {
	m.count(doc)
	if m.Err != nil {
		return m.Err
	}
	m.mu.RLock()
	data, err := json.Marshal(src)
	m.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("mock store: copying %s: %w", doc, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("mock store: copying %s: %w", doc, err)
	}
	return nil
}
