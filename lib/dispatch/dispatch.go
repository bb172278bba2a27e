// Package dispatch maps arbitrary URL strings to typed judge entities by
// trying registered recognizers in order.
package dispatch

import (
	"fmt"

	"judgetools/lib/judge"
)

// DispatchError means no registered recognizer accepted the URL. End
// users paste arbitrary strings, so this is an ordinary reported error,
// never a crash.
type DispatchError struct {
	Kind string
	URL  string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("no %s matches url: %s", e.Kind, e.URL)
}

// Recognizers inspect URL shape only: no network I/O, no side effects.
// Returning nil declines the URL.
type (
	ServiceFunc    func(url string) judge.Service
	ProblemFunc    func(url string) judge.Problem
	SubmissionFunc func(url string) judge.Submission
)

// Registry holds ordered recognizer lists, one per entity kind.
// Registration order is the priority among overlapping matchers: a
// recognizer for a specific subdomain must be registered before a generic
// one that would also accept it. Registries are built explicitly at
// startup; there is no global registry mutated by package imports.
type Registry struct {
	services    []ServiceFunc
	problems    []ProblemFunc
	submissions []SubmissionFunc
}

func (r *Registry) RegisterService(f ServiceFunc)       { r.services = append(r.services, f) }
func (r *Registry) RegisterProblem(f ProblemFunc)       { r.problems = append(r.problems, f) }
func (r *Registry) RegisterSubmission(f SubmissionFunc) { r.submissions = append(r.submissions, f) }

func (r *Registry) Service(url string) (judge.Service, error) {
	for _, f := range r.services {
		if s := f(url); s != nil {
			return s, nil
		}
	}
	return nil, &DispatchError{Kind: "service", URL: url}
}

func (r *Registry) Problem(url string) (judge.Problem, error) {
	for _, f := range r.problems {
		if p := f(url); p != nil {
			return p, nil
		}
	}
	return nil, &DispatchError{Kind: "problem", URL: url}
}

func (r *Registry) Submission(url string) (judge.Submission, error) {
	for _, f := range r.submissions {
		if s := f(url); s != nil {
			return s, nil
		}
	}
	return nil, &DispatchError{Kind: "submission", URL: url}
}
