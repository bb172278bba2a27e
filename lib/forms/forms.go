// Package forms rebuilds and resubmits HTML forms scraped out of judge
// pages.
package forms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"judgetools/lib/session"
)

var ErrNotAForm = errors.New("selection is not a form element")

// Form holds the default field values of a parsed <form> plus any caller
// overrides, and can replay the submit request the browser would make.
//
// Only inputs that carry both a name and a value are collected: hidden
// tokens and defaults are inherited, while free-text fields (no value
// attribute) must be provided through Set before submitting.
type Form struct {
	action  string
	method  string
	pageURL *url.URL
	payload url.Values
}

// New extracts a form from sel, which must select exactly one <form>
// element, resolved against the URL of the page it was found on.
func New(sel *goquery.Selection, pageURL *url.URL) (*Form, error) {
	if len(sel.Nodes) != 1 || goquery.NodeName(sel) != "form" {
		return nil, ErrNotAForm
	}

	f := &Form{
		action:  sel.AttrOr("action", ""),
		method:  strings.ToUpper(sel.AttrOr("method", "GET")),
		pageURL: pageURL,
		payload: url.Values{},
	}

	sel.Find("input").Each(func(_ int, input *goquery.Selection) {
		name, hasName := input.Attr("name")
		value, hasValue := input.Attr("value")
		if !hasName || name == "" || !hasValue || value == "" {
			return
		}
		slog.Debug("form default field", "name", name, "value", value)
		f.payload.Set(name, value)
	})

	return f, nil
}

// Set overrides or adds a field. Later calls win over defaults and over
// earlier calls.
func (f *Form) Set(key, value string) {
	f.payload.Set(key, value)
}

// Payload is the accumulated field map.
func (f *Form) Payload() url.Values {
	return f.payload
}

// TargetURL resolves the form's action attribute against the page URL.
// Absolute and relative actions are both supported.
func (f *Form) TargetURL() (string, error) {
	action, err := url.Parse(f.action)
	if err != nil {
		return "", fmt.Errorf("parse form action %q: %w", f.action, err)
	}
	return f.pageURL.ResolveReference(action).String(), nil
}

// Submit issues the form's request with its declared method and the
// accumulated fields as the body.
func (f *Form) Submit(ctx context.Context, s *session.Session, opts session.RequestOptions) (*resty.Response, error) {
	target, err := f.TargetURL()
	if err != nil {
		return nil, err
	}
	opts.Form = f.payload
	return s.Do(ctx, f.method, target, opts)
}
