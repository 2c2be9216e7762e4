package report

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nau-tools/edx-reportgen/internal/courses"
	"github.com/nau-tools/edx-reportgen/internal/lms"
)

func entriesFor(ids ...string) []courses.Entry {
	entries := make([]courses.Entry, len(ids))
	for i, id := range ids {
		entries[i] = courses.Entry{CourseID: id}
	}
	return entries
}

// fakeLMS serves the login handshake and scripted per-course responses.
func fakeLMS(t *testing.T, courseStatus func(path string) int) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123", Path: "/"})
	})
	mux.HandleFunc("/api/user/v1/account/login_session/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRFToken") != "tok123" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/courses/", func(w http.ResponseWriter, r *http.Request) {
		status := courseStatus(r.URL.Path)
		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, "report request rejected")
		}
	})
	return httptest.NewServer(mux)
}

func TestRunner_Run_AllSucceed(t *testing.T) {
	srv := fakeLMS(t, func(string) int { return http.StatusOK })
	defer srv.Close()

	runner := NewRunner()
	batch, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entriesFor("c1", "c2", "c3"))
	require.NoError(t, err)

	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 3, batch.SuccessCount)
	assert.Equal(t, 0, batch.FailedCount)
	assert.Len(t, batch.Results, 3)
}

func TestRunner_Run_FailureIsolation(t *testing.T) {
	// B's submission errors; A and C must still be attempted.
	srv := fakeLMS(t, func(path string) int {
		if path == "/courses/B/instructor/api/get_students_features/csv" {
			return http.StatusInternalServerError
		}
		return http.StatusOK
	})
	defer srv.Close()

	runner := NewRunner()
	batch, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entriesFor("A", "B", "C"))
	require.NoError(t, err)

	require.Len(t, batch.Results, 3)
	assert.Equal(t, 3, batch.Total)
	assert.Equal(t, 2, batch.SuccessCount)
	assert.Equal(t, 1, batch.FailedCount)

	assert.True(t, batch.Results[0].Success)
	assert.False(t, batch.Results[1].Success)
	assert.True(t, batch.Results[2].Success)
	assert.Contains(t, batch.Results[1].Message, "Failed (500)")
}

func TestRunner_Run_ResultsPreserveInputOrder(t *testing.T) {
	srv := fakeLMS(t, func(string) int { return http.StatusOK })
	defer srv.Close()

	runner := NewRunner()
	batch, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entriesFor("z", "a", "m"))
	require.NoError(t, err)

	ids := make([]string, len(batch.Results))
	for i, res := range batch.Results {
		ids[i] = res.CourseID
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestRunner_Run_CountingInvariant(t *testing.T) {
	srv := fakeLMS(t, func(path string) int {
		if len(path)%2 == 0 {
			return http.StatusBadRequest
		}
		return http.StatusOK
	})
	defer srv.Close()

	runner := NewRunner()
	batch, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entriesFor("c1", "c22", "c333", "c4444"))
	require.NoError(t, err)

	assert.Equal(t, batch.Total, batch.SuccessCount+batch.FailedCount)
	assert.Equal(t, batch.Total, len(batch.Results))
}

func TestRunner_Run_AuthFailureShortCircuits(t *testing.T) {
	var submissions atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123", Path: "/"})
	})
	mux.HandleFunc("/api/user/v1/account/login_session/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/courses/", func(w http.ResponseWriter, r *http.Request) {
		submissions.Add(1)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	runner := NewRunner()
	_, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "wrong"},
		StudentsProfile, entriesFor("c1", "c2"))

	require.ErrorIs(t, err, lms.ErrAuthenticationFailed)
	assert.Zero(t, submissions.Load(), "no course submission without a valid session")
}

func TestRunner_Run_OnResultObservesEveryCourse(t *testing.T) {
	srv := fakeLMS(t, func(string) int { return http.StatusOK })
	defer srv.Close()

	var seen []string
	runner := NewRunner()
	runner.OnResult = func(done, total int, res CourseResult) {
		seen = append(seen, fmt.Sprintf("%d/%d:%s", done, total, res.CourseID))
	}

	_, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entriesFor("c1", "c2"))
	require.NoError(t, err)

	assert.Equal(t, []string{"1/2:c1", "2/2:c2"}, seen)
}

func TestRunner_Run_DeduplicatedScenario(t *testing.T) {
	srv := fakeLMS(t, func(string) int { return http.StatusOK })
	defer srv.Close()

	entries, err := courses.Normalize("course-v1:X+Y+2024\ncourse-v1:X+Y+2024\n", courses.Options{Dedupe: true})
	require.NoError(t, err)
	require.Len(t, entries, 1)

	runner := NewRunner()
	batch, err := runner.Run(context.Background(), srv.URL,
		lms.Credentials{Email: "a@b.c", Password: "pw"},
		StudentsProfile, entries)
	require.NoError(t, err)

	assert.Equal(t, 1, batch.Total)
	assert.Len(t, batch.Results, 1)
}
