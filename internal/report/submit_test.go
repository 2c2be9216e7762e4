package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession records posted requests and plays back scripted responses.
type fakeSession struct {
	baseURL string
	posts   []fakePost
	status  int
	body    []byte
	err     error
}

type fakePost struct {
	url     string
	payload map[string]string
}

func (f *fakeSession) BaseURL() string { return f.baseURL }

func (f *fakeSession) PostForm(_ context.Context, url string, payload map[string]string) (int, []byte, error) {
	f.posts = append(f.posts, fakePost{url: url, payload: payload})
	return f.status, f.body, f.err
}

func newFakeSession() *fakeSession {
	return &fakeSession{baseURL: "https://lms.example.com", status: 200}
}

func TestSubmit_Success(t *testing.T) {
	session := newFakeSession()

	res := Submit(context.Background(), session, StudentsProfile, "course-v1:A+B+1", nil)

	assert.True(t, res.Success)
	assert.Equal(t, "course-v1:A+B+1", res.CourseID)
	assert.Equal(t, "course-v1:A+B+1: Submitted successfully", res.Message)
	require.Len(t, session.posts, 1)
	assert.Equal(t, "https://lms.example.com/courses/course-v1:A+B+1/instructor/api/get_students_features/csv", session.posts[0].url)
}

func TestSubmit_NonSuccessStatus(t *testing.T) {
	session := newFakeSession()
	session.status = 403
	session.body = []byte("Forbidden: missing data_researcher role")

	res := Submit(context.Background(), session, CalculateGrades, "c1", nil)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "c1: Failed (403)")
	assert.Contains(t, res.Message, "missing data_researcher role")
}

func TestSubmit_TruncatesLongBody(t *testing.T) {
	session := newFakeSession()
	session.status = 500
	session.body = []byte(strings.Repeat("x", 2000))

	res := Submit(context.Background(), session, CalculateGrades, "c1", nil)

	assert.False(t, res.Success)
	// prefix + 300-char excerpt, nothing more
	assert.LessOrEqual(t, len(res.Message), len("c1: Failed (500) - ")+300)
}

func TestSubmit_TransportError(t *testing.T) {
	session := newFakeSession()
	session.err = errors.New("dial tcp: connection refused")

	res := Submit(context.Background(), session, ORADataReport, "c1", nil)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "c1: Error - ")
	assert.Contains(t, res.Message, "connection refused")
}

func TestSubmit_UnsupportedKindBecomesFailedResult(t *testing.T) {
	session := newFakeSession()

	res := Submit(context.Background(), session, Kind("bogus"), "c1", nil)

	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "unsupported report")
	assert.Empty(t, session.posts, "no network call for an unsupported kind")
}

func TestSubmit_ProblemResponsesPayloadForwarded(t *testing.T) {
	session := newFakeSession()
	block := "block-v1:A+B+1+type@problem+block@abc"

	res := Submit(context.Background(), session, ProblemResponses, "course-v1:A+B+1", []string{block})

	assert.True(t, res.Success)
	require.Len(t, session.posts, 1)
	assert.Equal(t, map[string]string{"problem_location": block}, session.posts[0].payload)
}
