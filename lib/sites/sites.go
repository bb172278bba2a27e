// Package sites wires the supported judges into a dispatch registry.
// Adding a judge means adding its recognizers here, nowhere else; nothing
// registers itself as an import side effect.
package sites

import (
	"net/url"

	"github.com/antzucaro/matchr"

	"judgetools/lib/dispatch"
	"judgetools/lib/judge"
	"judgetools/lib/scrapers/atcoder"
	"judgetools/lib/scrapers/yukicoder"
)

// NewRegistry builds the registry of every supported judge.
// Order matters: recognizers are tried first to last.
func NewRegistry() *dispatch.Registry {
	r := &dispatch.Registry{}

	r.RegisterService(func(u string) judge.Service {
		if svc, ok := atcoder.ServiceFromURL(u); ok {
			return svc
		}
		return nil
	})
	r.RegisterService(func(u string) judge.Service {
		if svc, ok := yukicoder.ServiceFromURL(u); ok {
			return svc
		}
		return nil
	})

	r.RegisterProblem(func(u string) judge.Problem {
		if p := atcoder.ProblemFromURL(u); p != nil {
			return p
		}
		return nil
	})
	r.RegisterProblem(func(u string) judge.Problem {
		if p := yukicoder.ProblemFromURL(u); p != nil {
			return p
		}
		return nil
	})

	r.RegisterSubmission(func(u string) judge.Submission {
		if s := atcoder.SubmissionFromURL(u); s != nil {
			return s
		}
		return nil
	})
	r.RegisterSubmission(func(u string) judge.Submission {
		if s := yukicoder.SubmissionFromURL(u); s != nil {
			return s
		}
		return nil
	})

	return r
}

var knownDomains = []string{
	"atcoder.jp",
	"yukicoder.me",
}

// SuggestDomain guesses which known judge a mistyped URL was meant for,
// for friendlier dispatch errors. Returns "" when nothing is close.
func SuggestDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}

	best := ""
	bestDistance := len(host)
	for _, domain := range knownDomains {
		d := matchr.Levenshtein(host, domain)
		if d < bestDistance {
			best = domain
			bestDistance = d
		}
	}
	// a near miss, not a completely different site
	if best == "" || bestDistance > len(best)/2 {
		return ""
	}
	return best
}
