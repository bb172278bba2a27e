// Package yukicoder scrapes yukicoder.me: OAuth-backed login, sample
// test cases (scraped or from the testcase archive) and code submission.
package yukicoder

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"

	"judgetools/lib/forms"
	"judgetools/lib/judge"
	"judgetools/lib/session"
)

var tracer = otel.Tracer("scrapers/yukicoder")

// network entry point, overridable in tests
var baseURL = "https://yukicoder.me"

// onHome reports whether u is back on the judge's own host. The OAuth
// dance only ends up there once the session is authenticated.
func onHome(u *url.URL) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// Service is the yukicoder judge, a stateless value compared by domain.
type Service struct{}

func (Service) Name() string {
	return "yukicoder"
}

func (Service) URL() string {
	return "https://yukicoder.me/"
}

func ServiceFromURL(s string) (Service, bool) {
	u, err := url.Parse(s)
	if err != nil {
		return Service{}, false
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return Service{}, false
	}
	if u.Host == "yukicoder.me" {
		return Service{}, true
	}
	return Service{}, false
}

// IsLoggedIn follows the GitHub OAuth route: an authenticated session is
// bounced straight back to yukicoder.me, a logged-out one lands on
// github.com's authorization page.
func (Service) IsLoggedIn(ctx context.Context, s *session.Session) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:IsLoggedIn")
	defer span.End()

	res, err := s.Get(ctx, baseURL+"/auth/github")
	if err != nil {
		return false, err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return false, err
	}
	return onHome(session.FinalURL(res)), nil
}

// Login signs in through GitHub OAuth. yukicoder itself holds no
// password; the credentials are the GitHub account's, filled into the
// login form GitHub serves mid-redirect. An already-authenticated
// session short-circuits before the provider is consulted.
func (svc Service) Login(ctx context.Context, credentials judge.CredentialsProvider, s *session.Session) (bool, error) {
	ctx, span := tracer.Start(ctx, "service:Login")
	defer span.End()

	res, err := s.Get(ctx, baseURL+"/auth/github")
	if err != nil {
		return false, err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return false, err
	}
	if onHome(session.FinalURL(res)) {
		slog.InfoContext(ctx, "already signed in")
		return true, nil
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return false, err
	}
	formSel := doc.Find("form").First()
	if formSel.Length() == 0 {
		slog.WarnContext(ctx, "no login form on the oauth page")
		return false, nil
	}

	username, password, err := credentials()
	if err != nil {
		return false, err
	}

	form, err := forms.New(formSel, session.FinalURL(res))
	if err != nil {
		return false, err
	}
	form.Set("login", username)
	form.Set("password", password)

	res, err = form.Submit(ctx, s, session.RequestOptions{})
	if err != nil {
		return false, err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return false, err
	}

	if onHome(session.FinalURL(res)) {
		slog.InfoContext(ctx, "signed in")
		return true, nil
	}
	slog.WarnContext(ctx, "sign in failed, wrong user or password")
	return false, nil
}

var _ judge.Service = Service{}
