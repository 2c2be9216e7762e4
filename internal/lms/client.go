// ABOUTME: HTTP client for the Open edX LMS.
// ABOUTME: Handles the CSRF login handshake and authenticated form POSTs.

package lms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

// ErrAuthenticationFailed indicates the login handshake did not succeed.
// The LMS does not reliably distinguish bad credentials from insufficient
// permission, so both surface as this error.
var ErrAuthenticationFailed = errors.New("invalid credentials or insufficient permission")

const (
	csrfCookieName = "csrftoken"
	csrfHeaderName = "X-CSRFToken"

	// requestTimeout bounds every outbound call so one unreachable course
	// cannot stall a whole batch.
	requestTimeout = 30 * time.Second
)

// Credentials hold a user's login details for a single authentication call.
// They are never persisted.
type Credentials struct {
	Email    string
	Password string
}

// Session is an authenticated handle bound to one LMS base URL. It is
// immutable after Login: submissions read the client and token but never
// mutate them, so a Session may be shared across concurrent calls.
type Session struct {
	baseURL   string
	csrfToken string
	http      *http.Client
}

// BaseURL returns the LMS base URL the session was authenticated against.
func (s *Session) BaseURL() string { return s.baseURL }

// CSRFToken returns the token acquired at login. The same token accompanies
// every state-changing request in the batch; it is not refreshed per request.
func (s *Session) CSRFToken() string { return s.csrfToken }

// Login performs the two-step handshake: an anonymous GET to /login to
// acquire the CSRF cookie, then a POST to the login_session endpoint with the
// token as both header and cookie. Returns an authenticated Session or
// ErrAuthenticationFailed.
func Login(ctx context.Context, lmsURL string, creds Credentials) (*Session, error) {
	lmsURL = strings.TrimSuffix(lmsURL, "/")

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Jar: jar, Timeout: requestTimeout}

	loginURL := lmsURL + "/login"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loginURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching login page: %w", err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	token := cookieValue(jar, lmsURL, csrfCookieName)
	if token == "" {
		return nil, fmt.Errorf("%w: no %s cookie set by %s", ErrAuthenticationFailed, csrfCookieName, loginURL)
	}

	form := url.Values{
		"email":    {creds.Email},
		"password": {creds.Password},
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost,
		lmsURL+"/api/user/v1/account/login_session/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeaderName, token)
	req.Header.Set("Referer", loginURL)

	resp, err = client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w (status %d)", ErrAuthenticationFailed, resp.StatusCode)
	}

	return &Session{
		baseURL:   lmsURL,
		csrfToken: token,
		http:      client,
	}, nil
}

// PostForm sends an authenticated form POST carrying the CSRF token as both
// header and cookie, with the referer the LMS requires. It returns the HTTP
// status and the response body.
func (s *Session) PostForm(ctx context.Context, target string, payload map[string]string) (int, []byte, error) {
	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(csrfHeaderName, s.csrfToken)
	req.Header.Set("Referer", s.baseURL+"/login")
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: s.csrfToken})

	resp, err := s.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func cookieValue(jar http.CookieJar, rawURL, name string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, c := range jar.Cookies(u) {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}
