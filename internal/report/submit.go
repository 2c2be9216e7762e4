// ABOUTME: Submits one report-generation request per course.
// ABOUTME: Classifies every per-course outcome as a result, never an error.

package report

import (
	"context"
	"fmt"
)

// maxBodyExcerpt caps how much of a failed response body is kept for
// diagnostics.
const maxBodyExcerpt = 300

// FormPoster is the slice of an authenticated LMS session the submitter
// needs. lms.Session satisfies it; tests supply fakes.
type FormPoster interface {
	BaseURL() string
	PostForm(ctx context.Context, url string, payload map[string]string) (int, []byte, error)
}

// CourseResult is the outcome of one course's submission. Success means the
// LMS accepted the request; the report itself is generated asynchronously
// and has to be downloaded later from the instructor dashboard.
type CourseResult struct {
	CourseID string `json:"course_id"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// Submit derives the request for one course and POSTs it. Every path
// returns a CourseResult: derivation failures, non-2xx statuses, and
// transport errors all become failed results rather than errors, so one bad
// course never aborts a batch.
func Submit(ctx context.Context, session FormPoster, kind Kind, courseID string, auxInfo []string) CourseResult {
	req, err := NewRequest(session.BaseURL(), kind, courseID, auxInfo)
	if err != nil {
		return CourseResult{
			CourseID: courseID,
			Message:  fmt.Sprintf("%s: %v", courseID, err),
		}
	}

	status, body, err := session.PostForm(ctx, req.URL, req.Payload)
	if err != nil {
		return CourseResult{
			CourseID: courseID,
			Message:  fmt.Sprintf("%s: Error - %v", courseID, err),
		}
	}
	if status < 200 || status > 299 {
		return CourseResult{
			CourseID: courseID,
			Message:  fmt.Sprintf("%s: Failed (%d) - %s", courseID, status, excerpt(body)),
		}
	}

	return CourseResult{
		CourseID: courseID,
		Success:  true,
		Message:  fmt.Sprintf("%s: Submitted successfully", courseID),
	}
}

func excerpt(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt])
	}
	return string(body)
}
