package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ajitpratap0/campus-advisor/internal/models"
)

// FileStore reads the reference documents from a directory of JSON files.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// Dir returns the data directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) TeacherRatings(ctx context.Context) ([]models.TeacherRating, error) {
	var out []models.TeacherRating
	if err := s.load(ctx, TeacherRatingsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileStore) ProfessorReviews(ctx context.Context) ([]models.ProfessorReviews, error) {
	var out []models.ProfessorReviews
	if err := s.load(ctx, ProfessorReviewsFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FileStore) Assignments(ctx context.Context) (*models.AssignmentFeed, error) {
	var out models.AssignmentFeed
	if err := s.load(ctx, AssignmentsFile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FileStore) Courses(ctx context.Context) ([]models.Course, error) {
	var out []models.Course
	if err := s.load(ctx, CoursesFile, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// load decodes one document into v.
func (s *FileStore) load(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path) //nolint:gosec // path is built from a fixed file name
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	s.logger.Debug("loaded document", "path", path, "bytes", len(data))
	return nil
}
