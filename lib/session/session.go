package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"

	"judgetools/lib/restyutil"
)

// StatusError reports a response whose status code was not 200 OK. This
// layer never retries; the caller decides what a given code means.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, http.StatusText(e.Code))
}

// Session is an HTTP client context bound to a cookie jar. When acquired
// from a file path it loads the jar on creation and writes it back on
// Release; sessions created with New are purely in-memory.
//
// A Session must not be shared between goroutines: redirect policy is
// toggled on the underlying client per request.
type Session struct {
	http *resty.Client
	jar  *Jar
	path string
}

func newSession() (*Session, error) {
	jar, err := NewJar()
	if err != nil {
		return nil, err
	}

	client := resty.New()
	client.SetCookieJar(jar)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetTimeout(time.Second * 30)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	// OJ_HTTP_DUMP=<dir> dumps every exchange for debugging judge markup
	var output restyutil.InstrumentOutput
	if dir := os.Getenv("OJ_HTTP_DUMP"); dir != "" {
		output = restyutil.NewFilesystemOutput(dir)
	}
	restyutil.InstrumentClient(client, output)

	return &Session{http: client, jar: jar}, nil
}

// New returns a throwaway in-memory session. Release is a no-op for it.
func New() (*Session, error) {
	return newSession()
}

// Acquire returns a session whose cookies are persisted at path. If the
// file exists its cookies are loaded, otherwise the jar starts empty.
// Callers must Release the session on every exit path to write the jar
// back out.
func Acquire(path string) (*Session, error) {
	s, err := newSession()
	if err != nil {
		return nil, err
	}
	err = s.jar.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load cookie jar %q: %w", path, err)
	}
	s.path = path
	return s, nil
}

// Release saves the cookie jar back to the path the session was acquired
// with. Safe to call from defer.
func (s *Session) Release() error {
	if s.path == "" {
		return nil
	}
	err := s.jar.Save(s.path)
	if err != nil {
		return fmt.Errorf("save cookie jar %q: %w", s.path, err)
	}
	return nil
}

// Client exposes the underlying resty client for callers that need
// request shapes Do does not cover.
func (s *Session) Client() *resty.Client {
	return s.http
}

type RequestOptions struct {
	// Form, when non-nil, is sent urlencoded as the request body.
	Form url.Values
	// NoRedirect stops the client at the first response instead of
	// following Location headers. Login probes depend on this.
	NoRedirect bool
}

// Do issues a request and returns the response regardless of its status
// code. Transport failures are the only errors.
func (s *Session) Do(ctx context.Context, method, rawURL string, opts RequestOptions) (*resty.Response, error) {
	if opts.NoRedirect {
		s.http.SetRedirectPolicy(resty.NoRedirectPolicy())
		defer s.http.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	}

	req := s.http.R().SetContext(ctx)
	if opts.Form != nil {
		req.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		req.SetBody(opts.Form.Encode())
	}

	res, err := req.Execute(method, rawURL)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) && errors.Is(ue.Err, resty.ErrAutoRedirectDisabled) {
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// Get fetches a URL following redirects.
func (s *Session) Get(ctx context.Context, rawURL string) (*resty.Response, error) {
	return s.Do(ctx, http.MethodGet, rawURL, RequestOptions{})
}

// Download fetches a URL and fails with a StatusError on anything but
// 200 OK, returning the body otherwise.
func (s *Session) Download(ctx context.Context, rawURL string) ([]byte, error) {
	res, err := s.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	err = CheckStatus(res)
	if err != nil {
		return nil, err
	}
	return res.Body(), nil
}

// CheckStatus converts a non-200 response into a StatusError.
func CheckStatus(res *resty.Response) error {
	if res.StatusCode() != http.StatusOK {
		return &StatusError{Code: res.StatusCode()}
	}
	return nil
}

// FinalURL is the URL the request ended up at after redirects. Submission
// protocols classify success by inspecting it.
func FinalURL(res *resty.Response) *url.URL {
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		return res.RawResponse.Request.URL
	}
	u, _ := url.Parse(res.Request.URL)
	return u
}
