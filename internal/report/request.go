// ABOUTME: Pure mapping from (kind, course, auxiliary info) to a submission request.
// ABOUTME: Deterministic and side-effect free so it can be tested in isolation.

package report

import "fmt"

// Request is a derived report-generation request: the endpoint to POST to
// and the form payload to send.
type Request struct {
	URL     string
	Payload map[string]string
}

// NewRequest derives the target URL and payload for one course. Identical
// inputs always yield an identical request. Unknown kinds fail with
// ErrUnsupportedReport before any network activity.
//
// The problem responses report takes the block location from the first
// auxiliary element when present; without one it submits an empty payload,
// which the LMS accepts and resolves with its own default.
func NewRequest(lmsURL string, kind Kind, courseID string, auxInfo []string) (Request, error) {
	if format, ok := certificateFormats[kind]; ok {
		return Request{
			URL:     fmt.Sprintf("%s/nau-openedx-extensions/certificate-export/courses/%s/%s", lmsURL, courseID, format),
			Payload: map[string]string{},
		}, nil
	}

	endpoint, ok := instructorEndpoints[kind]
	if !ok {
		return Request{}, fmt.Errorf("%w %q", ErrUnsupportedReport, kind)
	}

	payload := map[string]string{}
	if kind == ProblemResponses && len(auxInfo) > 0 {
		payload["problem_location"] = auxInfo[0]
	}

	return Request{
		URL:     fmt.Sprintf("%s/courses/%s/instructor/api/%s", lmsURL, courseID, endpoint),
		Payload: payload,
	}, nil
}
