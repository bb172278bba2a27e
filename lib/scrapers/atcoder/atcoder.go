// Package atcoder scrapes atcoder.jp: login, contest and problem
// listings, sample test cases and code submission.
package atcoder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"

	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/session"
)

var tracer = otel.Tracer("scrapers/atcoder")

// network entry points, overridable in tests
var (
	baseURL  = "https://atcoder.jp"
	loginURL = "https://practice.contest.atcoder.jp/login"

	contestHost = func(contestID string) string {
		return fmt.Sprintf("http://%s.contest.atcoder.jp", contestID)
	}
)

// Service is the AtCoder judge. It is a stateless value; two Service
// values are always the same judge.
type Service struct{}

func (Service) Name() string {
	return "atcoder"
}

func (Service) URL() string {
	return "https://atcoder.jp/"
}

// ServiceFromURL recognizes atcoder.jp, beta.atcoder.jp and the legacy
// per-contest subdomains.
func ServiceFromURL(s string) (Service, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return Service{}, false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return Service{}, false
	}
	host := u.Host
	if host == "atcoder.jp" || host == "beta.atcoder.jp" || strings.HasSuffix(host, ".contest.atcoder.jp") {
		return Service{}, true
	}
	return Service{}, false
}

// AtCoder reports login state through flash messages carried in
// "__message_*" cookies: a url-encoded JSON object whose "c" field is an
// HTML fragment holding the message text.
func messagesFromCookies(cookies []*http.Cookie) []string {
	var msgs []string
	for _, cookie := range cookies {
		if !strings.HasPrefix(cookie.Name, "__message_") {
			continue
		}
		decoded, err := url.QueryUnescape(cookie.Value)
		if err != nil {
			slog.Debug("undecodable message cookie", "name", cookie.Name, "err", err)
			continue
		}
		var payload struct {
			C string `json:"c"`
		}
		err = json.Unmarshal([]byte(decoded), &payload)
		if err != nil {
			slog.Debug("unparsable message cookie", "name", cookie.Name, "err", err)
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(payload.C))
		if err != nil {
			continue
		}
		msg := htmlutil.FirstNonEmptyText(doc.Selection)
		if msg == "" {
			slog.Warn("failed to extract text from message cookie", "name", cookie.Name)
			continue
		}
		msgs = append(msgs, msg)
	}
	return msgs
}

func reportMessages(msgs []string) {
	for _, msg := range msgs {
		slog.Info("message from judge", "message", msg)
	}
}

// IsLoggedIn probes the login endpoint without following redirects: an
// authenticated session is greeted with a flash message cookie.
func (Service) IsLoggedIn(ctx context.Context, s *session.Session) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:IsLoggedIn")
	defer span.End()

	res, err := s.Do(ctx, http.MethodGet, loginURL, session.RequestOptions{NoRedirect: true})
	if err != nil {
		return false, err
	}
	return len(messagesFromCookies(res.Cookies())) > 0, nil
}

// Login authenticates the session. The probe runs first and an
// already-authenticated session short-circuits, so the credentials
// provider is never invoked unless the judge actually asks for a login.
func (svc Service) Login(ctx context.Context, credentials judge.CredentialsProvider, s *session.Session) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:Login")
	defer span.End()

	res, err := s.Do(ctx, http.MethodGet, loginURL, session.RequestOptions{NoRedirect: true})
	if err != nil {
		return false, err
	}
	msgs := messagesFromCookies(res.Cookies())
	reportMessages(msgs)
	if len(msgs) > 0 {
		return true, nil
	}

	username, password, err := credentials()
	if err != nil {
		return false, err
	}

	res, err = s.Do(ctx, http.MethodPost, loginURL, session.RequestOptions{
		NoRedirect: true,
		Form: url.Values{
			"name":     {username},
			"password": {password},
		},
	})
	if err != nil {
		return false, err
	}
	reportMessages(messagesFromCookies(res.Cookies()))

	// a successful login redirects to the contest top page, a failed
	// one sends the session back to the login form
	location := res.Header().Get("Location")
	return location != "" && !strings.Contains(location, "login"), nil
}

func normpath(p string) string {
	cleaned := path.Clean(p)
	if cleaned == "." {
		return "/"
	}
	return cleaned
}

var _ judge.Service = Service{}
