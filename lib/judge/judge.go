// Package judge defines the contracts shared by every online-judge
// implementation: the entity interfaces, the sample test case shape, and
// the error kinds scraping operations report.
package judge

import (
	"context"

	"judgetools/lib/session"
)

// TestCase is one published (input, expected output) pair. Batches are
// ordered; the order samples appear in on the page is significant.
type TestCase struct {
	Name   string
	Input  string
	Output string
}

// CredentialsProvider returns a username/password pair. Implementations
// may prompt the user, so it is only ever invoked once a login attempt has
// established that credentials are actually needed.
type CredentialsProvider func() (username, password string, err error)

// StaticCredentials wraps a fixed pair in a provider.
func StaticCredentials(username, password string) CredentialsProvider {
	return func() (string, string, error) {
		return username, password, nil
	}
}

// Service is one online judge. Implementations are stateless values
// compared by the judge's root domain; all request state lives in the
// session passed to each call.
type Service interface {
	// Name is a short lowercase identifier, e.g. "atcoder".
	Name() string
	// URL is the canonical root URL of the judge.
	URL() string
	// Login authenticates the session. Credentials are requested from
	// the provider only if the judge reports the session as logged out;
	// an already-authenticated session returns true without prompting.
	Login(ctx context.Context, credentials CredentialsProvider, s *session.Session) (bool, error)
	// IsLoggedIn probes the judge without mutating login state.
	IsLoggedIn(ctx context.Context, s *session.Session) (bool, error)
}

// Problem is a single task on a judge.
type Problem interface {
	// URL is canonical and round-trips through the dispatcher.
	URL() string
	Service() Service
	// DownloadSampleCases scrapes the sample (input, output) pairs from
	// the problem statement, in document order. Pages the session is not
	// allowed to see yield an empty slice and a warning, not an error.
	DownloadSampleCases(ctx context.Context, s *session.Session) ([]TestCase, error)
	// Submit sends source code and returns the URL the judge redirected
	// to on success. Every failure is a *SubmissionError.
	Submit(ctx context.Context, s *session.Session, code []byte, language string) (string, error)
}

// Submission is a single past submission on a judge.
type Submission interface {
	URL() string
	Service() Service
	// DownloadSource re-fetches the rendered source code. Idempotent.
	DownloadSource(ctx context.Context, s *session.Session) (string, error)
}
