package calendar_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeClient struct {
	created  []models.CalendarEventRequest
	freeBusy []calendar.FreeBusyParams
	err      error
	closed   int
}

func (f *fakeClient) CreateEvent(_ context.Context, req models.CalendarEventRequest) (any, error) {
	f.created = append(f.created, req)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"id": "evt-1"}, nil
}

func (f *fakeClient) ListEvents(_ context.Context, _ calendar.ListEventsParams) (any, error) {
	return []any{}, f.err
}

func (f *fakeClient) DeleteEvent(_ context.Context, _ calendar.DeleteEventParams) (any, error) {
	return map[string]any{"deleted": true}, f.err
}

func (f *fakeClient) GetFreeBusy(_ context.Context, p calendar.FreeBusyParams) (any, error) {
	f.freeBusy = append(f.freeBusy, p)
	return map[string]any{}, f.err
}

func (f *fakeClient) Close() error {
	f.closed++
	return nil
}

func newGateway(creds string, fc *fakeClient, connectErr error) (*calendar.Gateway, *int) {
	connects := 0
	gw := calendar.NewGateway(calendar.Config{CredentialsPath: creds},
		func(_ context.Context, _ calendar.Config) (calendar.Client, error) {
			connects++
			if connectErr != nil {
				return nil, connectErr
			}
			return fc, nil
		}, quietLogger())
	return gw, &connects
}

func validInput() calendar.EventInput {
	return calendar.EventInput{
		Summary:   "Office hours",
		StartTime: "2025-11-12T15:00:00-07:00",
		EndTime:   "2025-11-12T15:30:00-07:00",
	}
}

func TestGateway_NotConfigured(t *testing.T) {
	gw, connects := newGateway("", &fakeClient{}, nil)
	assert.False(t, gw.Configured())

	_, err := gw.CreateEvent(context.Background(), validInput())
	require.ErrorIs(t, err, calendar.ErrNotConfigured)
	assert.Equal(t, 0, *connects)
}

func TestGateway_CreateEventAppliesDefaultZoneAndCloses(t *testing.T) {
	fc := &fakeClient{}
	gw, connects := newGateway("/secure/gcp-oauth.keys.json", fc, nil)

	out, err := gw.CreateEvent(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"id": "evt-1"}, out)
	assert.Equal(t, 1, *connects)
	assert.Equal(t, 1, fc.closed)

	require.Len(t, fc.created, 1)
	assert.Equal(t, "America/Denver", fc.created[0].Start.TimeZone)
	assert.Equal(t, "America/Denver", fc.created[0].End.TimeZone)
}

func TestGateway_ClosesOnFailure(t *testing.T) {
	fc := &fakeClient{err: errors.New("quota exceeded")}
	gw, _ := newGateway("/keys.json", fc, nil)

	_, err := gw.CreateEvent(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, 1, fc.closed)
}

func TestGateway_ConnectFailure(t *testing.T) {
	gw, _ := newGateway("/keys.json", &fakeClient{}, errors.New("npx not found"))
	_, err := gw.ListEvents(context.Background(), calendar.ListEventsParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "npx not found")
}

func TestGateway_ValidatesInput(t *testing.T) {
	gw, connects := newGateway("/keys.json", &fakeClient{}, nil)
	_, err := gw.CreateEvent(context.Background(), calendar.EventInput{Summary: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_time")
	assert.Equal(t, 0, *connects)

	_, err = gw.DeleteEvent(context.Background(), calendar.DeleteEventParams{})
	require.Error(t, err)
}

func TestGateway_ExplicitZoneWins(t *testing.T) {
	gw, _ := newGateway("/keys.json", &fakeClient{}, nil)
	in := validInput()
	in.TimeZone = "America/New_York"
	req := gw.Request(in)
	assert.Equal(t, "America/New_York", req.Start.TimeZone)
}

func TestGateway_FreeBusyDefaultsZone(t *testing.T) {
	fc := &fakeClient{}
	gw, _ := newGateway("/keys.json", fc, nil)
	_, err := gw.GetFreeBusy(context.Background(), calendar.FreeBusyParams{
		Calendars: []calendar.FreeBusyCalendar{{ID: "primary"}},
		TimeMin:   "2025-11-11T00:00:00Z",
		TimeMax:   "2025-11-12T00:00:00Z",
	})
	require.NoError(t, err)
	require.Len(t, fc.freeBusy, 1)
	assert.Equal(t, "America/Denver", fc.freeBusy[0].TimeZone)
}

func TestGateway_NotConfiguredBeforeValidation(t *testing.T) {
	gw, _ := newGateway("", &fakeClient{}, nil)
	_, err := gw.CreateEvent(context.Background(), calendar.EventInput{})
	assert.ErrorIs(t, err, calendar.ErrNotConfigured)
}
