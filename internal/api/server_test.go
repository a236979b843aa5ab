package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/campus-advisor/internal/api"
	"github.com/ajitpratap0/campus-advisor/internal/calendar"
	"github.com/ajitpratap0/campus-advisor/internal/chat"
	"github.com/ajitpratap0/campus-advisor/internal/models"
	"github.com/ajitpratap0/campus-advisor/internal/store"
	"github.com/ajitpratap0/campus-advisor/internal/tools"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type fakeChatter struct {
	reply   models.Message
	err     error
	history []models.Message
}

func (f *fakeChatter) Run(_ context.Context, history []models.Message) (models.Message, error) {
	f.history = history
	if err := chat.ValidateHistory(history); err != nil {
		return models.Message{}, err
	}
	return f.reply, f.err
}

type fakeCalendar struct {
	inputs []calendar.EventInput
	err    error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, in calendar.EventInput) (any, error) {
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	return map[string]any{"id": "evt-42", "summary": in.Summary}, nil
}

type testEnv struct {
	ts       *httptest.Server
	store    *store.MockStore
	chat     *fakeChatter
	calendar *fakeCalendar
}

// newTestServer creates a test HTTP server with a MockStore and fakes for the
// chat loop and the calendar.
func newTestServer(t *testing.T, authToken string) *testEnv {
	t.Helper()
	st := store.NewMockStore()
	st.SetTeacherRatings([]models.TeacherRating{
		{FirstName: "Riley", LastName: "Wilson"},
		{FirstName: "Riley", LastName: "Bassett"},
		{FirstName: "Sarah", LastName: "Chen"},
	})
	st.SetCourses([]models.Course{
		{CourseName: "CS 452", FullTitle: "Database Modeling", CreditHours: "4.0", Sections: []models.Section{
			{SectionNumber: "001", InstructorName: "Sarah Chen", Times: []models.MeetingTime{{Days: "MWF", StartTime: "9:00", EndTime: "9:50"}}},
		}},
		{CourseName: "CS 142", FullTitle: "Intro to Programming", Sections: []models.Section{{SectionNumber: "001"}}},
	})
	env := &testEnv{
		store:    st,
		chat:     &fakeChatter{reply: models.Message{Role: models.RoleAssistant, Content: "Hi there"}},
		calendar: &fakeCalendar{},
	}
	srv := api.NewServer(st, env.chat, env.calendar, http.NotFoundHandler(), quietLogger(), authToken)
	env.ts = httptest.NewServer(srv.Handler())
	t.Cleanup(env.ts.Close)
	return env
}

func doRequest(t *testing.T, method, url, body, token string) *http.Response {
	t.Helper()
	var rdr *bytes.Reader
	if body != "" {
		rdr = bytes.NewReader([]byte(body))
	} else {
		rdr = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, url, rdr)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPI_Healthz(t *testing.T) {
	env := newTestServer(t, "")
	resp := doRequest(t, http.MethodGet, env.ts.URL+"/healthz", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeJSON[map[string]string](t, resp)["status"])
}

func TestAPI_DebugVars(t *testing.T) {
	env := newTestServer(t, "secret")
	resp := doRequest(t, http.MethodGet, env.ts.URL+"/debug/vars", "", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	vars := decodeJSON[map[string]any](t, resp)
	assert.Contains(t, vars, "advisor_chat_total")
}

func TestAPI_Chat(t *testing.T) {
	env := newTestServer(t, "")
	resp := doRequest(t, http.MethodPost, env.ts.URL+"/chat", `{"messages":[{"role":"user","content":"hello"}]}`, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[map[string]models.Message](t, resp)
	assert.Equal(t, "Hi there", out["message"].Content)
	assert.Equal(t, models.RoleAssistant, out["message"].Role)
	require.Len(t, env.chat.history, 1)
	assert.Equal(t, "hello", env.chat.history[0].Content)
}

func TestAPI_ChatIncompleteStillAnswers(t *testing.T) {
	env := newTestServer(t, "")
	env.chat.reply = models.Message{Role: models.RoleAssistant, Content: chat.IncompleteMessage}
	env.chat.err = fmt.Errorf("%w: round limit", chat.ErrIncomplete)

	resp := doRequest(t, http.MethodPost, env.ts.URL+"/chat", `{"messages":[{"role":"user","content":"loop"}]}`, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[map[string]models.Message](t, resp)
	assert.Equal(t, chat.IncompleteMessage, out["message"].Content)
}

func TestAPI_ChatFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
		want string
	}{
		{"malformed body", `{"messages":`, nil, "invalid request body"},
		{"missing messages", `{}`, nil, "invalid conversation history"},
		{"orphan tool message", `{"messages":[{"role":"tool","tool_call_id":"x","content":"{}"}]}`, nil, "invalid conversation history"},
		{"unknown tool", `{"messages":[{"role":"user","content":"hi"}]}`, fmt.Errorf("%w: drop_tables", tools.ErrToolNotFound), "tool not found: drop_tables"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestServer(t, "")
			env.chat.err = tt.err

			resp := doRequest(t, http.MethodPost, env.ts.URL+"/chat", tt.body, "")
			defer resp.Body.Close()

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Contains(t, decodeJSON[map[string]string](t, resp)["error"], tt.want)
		})
	}
}

func TestAPI_TeacherRatings(t *testing.T) {
	env := newTestServer(t, "")

	resp := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings?teacher_name=riley+wilson", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ratings := decodeJSON[[]models.EnrichedRating](t, resp)
	require.Len(t, ratings, 1)
	assert.Equal(t, "Wilson", ratings[0].LastName)

	all := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings", "", "")
	defer all.Body.Close()
	assert.Len(t, decodeJSON[[]models.EnrichedRating](t, all), 3)
}

func TestAPI_TeacherRatingsStoreError(t *testing.T) {
	env := newTestServer(t, "")
	env.store.Err = errors.New("disk on fire")

	resp := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings?teacher_name=chen", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Failed to fetch teacher ratings", decodeJSON[map[string]string](t, resp)["error"])
}

func TestAPI_CourseSearch(t *testing.T) {
	env := newTestServer(t, "")

	resp := doRequest(t, http.MethodGet, env.ts.URL+"/courses/search?q=cs++452", "", "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[map[string][]models.CourseSummary](t, resp)
	require.Len(t, out["courses"], 1)
	assert.Equal(t, "CS 452", out["courses"][0].Code)
	assert.Equal(t, "MWF 9:00-9:50", out["courses"][0].Schedule)
}

func TestAPI_CourseSearchBlankAndLimit(t *testing.T) {
	env := newTestServer(t, "")

	blank := doRequest(t, http.MethodGet, env.ts.URL+"/courses/search?q=", "", "")
	defer blank.Body.Close()
	require.Equal(t, http.StatusOK, blank.StatusCode)
	out := decodeJSON[map[string][]models.CourseSummary](t, blank)
	assert.NotNil(t, out["courses"])
	assert.Empty(t, out["courses"])

	limited := doRequest(t, http.MethodGet, env.ts.URL+"/courses/search?q=cs&limit=1", "", "")
	defer limited.Body.Close()
	assert.Len(t, decodeJSON[map[string][]models.CourseSummary](t, limited)["courses"], 1)

	bad := doRequest(t, http.MethodGet, env.ts.URL+"/courses/search?q=cs&limit=abc", "", "")
	defer bad.Body.Close()
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
}

const eventBody = `{"summary":"Study group","start_time":"2025-11-12T15:00:00","end_time":"2025-11-12T16:00:00"}`

func TestAPI_CalendarAdd(t *testing.T) {
	env := newTestServer(t, "")

	resp := doRequest(t, http.MethodPost, env.ts.URL+"/calendar/add", eventBody, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Calendar event created successfully", out["message"])
	require.Len(t, env.calendar.inputs, 1)
	assert.Equal(t, "Study group", env.calendar.inputs[0].Summary)
}

func TestAPI_CalendarAddNotConfigured(t *testing.T) {
	env := newTestServer(t, "")
	env.calendar.err = calendar.ErrNotConfigured

	resp := doRequest(t, http.MethodPost, env.ts.URL+"/calendar/add", eventBody, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, false, out["success"])
	msg, ok := out["message"].(string)
	require.True(t, ok)
	assert.True(t, strings.Contains(msg, "GOOGLE_OAUTH_CREDENTIALS"))
}

func TestAPI_CalendarAddFailure(t *testing.T) {
	env := newTestServer(t, "")
	env.calendar.err = errors.New("token expired")

	resp := doRequest(t, http.MethodPost, env.ts.URL+"/calendar/add", eventBody, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	out := decodeJSON[map[string]any](t, resp)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "token expired", out["error"])
}

func TestAPI_CalendarAddMalformedBody(t *testing.T) {
	env := newTestServer(t, "")
	resp := doRequest(t, http.MethodPost, env.ts.URL+"/calendar/add", `{"summary":`, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Empty(t, env.calendar.inputs)
}

func TestAPI_Auth(t *testing.T) {
	env := newTestServer(t, "s3cret")

	noToken := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings", "", "")
	defer noToken.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, noToken.StatusCode)

	wrong := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings", "", "nope")
	defer wrong.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, wrong.StatusCode)

	ok := doRequest(t, http.MethodGet, env.ts.URL+"/teacher-ratings", "", "s3cret")
	defer ok.Body.Close()
	assert.Equal(t, http.StatusOK, ok.StatusCode)

	health := doRequest(t, http.MethodGet, env.ts.URL+"/healthz", "", "")
	defer health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
