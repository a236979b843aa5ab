package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/campus-advisor/internal/store"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeDoc(t *testing.T, dir, name, doc string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o600))
}

func TestFileStore_MissingFileIsNotFound(t *testing.T) {
	dir := t.TempDir()
	s := store.NewFileStore(dir, quietLogger())

	_, err := s.Courses(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Contains(t, err.Error(), filepath.Join(dir, store.CoursesFile))

	_, err = s.Assignments(context.Background())
	assert.True(t, errors.Is(err, store.ErrNotFound))
}

func TestFileStore_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, store.TeacherRatingsFile, `[{"firstName": "Riley",`)
	s := store.NewFileStore(dir, quietLogger())

	_, err := s.TeacherRatings(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, store.ErrNotFound))
	assert.Contains(t, err.Error(), "decoding")
	assert.Contains(t, err.Error(), store.TeacherRatingsFile)
}

func TestFileStore_ReReadsOnEveryCall(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, store.TeacherRatingsFile, `[{"firstName":"Riley","lastName":"Wilson","avgRating":4.5}]`)
	s := store.NewFileStore(dir, quietLogger())

	first, err := s.TeacherRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, "Wilson", first[0].LastName)

	writeDoc(t, dir, store.TeacherRatingsFile, `[
		{"firstName":"Sarah","lastName":"Chen","avgRating":4.8},
		{"firstName":"Riley","lastName":"Bassett","avgRating":3.9}
	]`)

	second, err := s.TeacherRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Chen", second[0].LastName)
}

func TestFileStore_CoursesDecode(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, store.CoursesFile, `[{"course_name":"CS 452","full_title":"Database Modeling","credit_hours":"3.0",
		"sections":[{"section_number":"001","instructor_name":"Sarah Chen","times":[{"days":"MW"}]}]}]`)
	s := store.NewFileStore(dir, quietLogger())

	got, err := s.Courses(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "CS 452", got[0].CourseName)
	require.Len(t, got[0].Sections, 1)
	assert.Equal(t, "Sarah Chen", got[0].Sections[0].InstructorName)
	assert.Equal(t, "MW", got[0].Sections[0].Times[0].Days)
}

func TestFileStore_AssignmentFeedKeepsMetadata(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, store.AssignmentsFile, `{"total_events":2,"source":"canvas","events":[
		{"assignment":"HW 1","due_date":"2025-02-01","course":"MATH 320"},
		{"assignment":"Quiz","due_date":null,"course":"CS 101","points":10}
	]}`)
	s := store.NewFileStore(dir, quietLogger())

	feed, err := s.Assignments(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.Events, 2)
	assert.JSONEq(t, `2`, string(feed.Meta["total_events"]))
	assert.JSONEq(t, `"canvas"`, string(feed.Meta["source"]))
	assert.Empty(t, feed.Events[1].DueDate)

	out, err := json.Marshal(feed)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_events":2,"source":"canvas","events":[
		{"assignment":"HW 1","due_date":"2025-02-01","course":"MATH 320"},
		{"assignment":"Quiz","due_date":null,"course":"CS 101","points":10}
	]}`, string(out))
}

func TestFileStore_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, store.CoursesFile, `[]`)
	s := store.NewFileStore(dir, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Courses(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileStore_Dir(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, dir, store.NewFileStore(dir, quietLogger()).Dir())
}
