package yukicoder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"judgetools/lib/forms"
	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/samples"
	"judgetools/lib/session"
)

var problemURLRegex = regexp.MustCompile(`^https?://yukicoder\.me/problems/(no/)?([0-9]+)/?$`)

// Problem is keyed by either the public problem number ("no") or the
// internal problem id, whichever the URL carried. Exactly one of the two
// is set.
type Problem struct {
	No int
	ID int
}

func ProblemFromNo(no int) *Problem {
	return &Problem{No: no}
}

func ProblemFromID(id int) *Problem {
	return &Problem{ID: id}
}

func ProblemFromURL(s string) *Problem {
	m := problemURLRegex.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	digits := strings.TrimLeft(m[2], "0")
	if digits == "" {
		digits = "0"
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	if m[1] != "" {
		return ProblemFromNo(n)
	}
	return ProblemFromID(n)
}

func (p *Problem) URL() string {
	if p.No != 0 {
		return fmt.Sprintf("https://yukicoder.me/problems/no/%d", p.No)
	}
	return fmt.Sprintf("https://yukicoder.me/problems/%d", p.ID)
}

func (p *Problem) path() string {
	if p.No != 0 {
		return fmt.Sprintf("/problems/no/%d", p.No)
	}
	return fmt.Sprintf("/problems/%d", p.ID)
}

func (p *Problem) Service() judge.Service {
	return Service{}
}

// parseSampleTag accepts a pre only when it sits in the statement's
// sample layout: h6 label right before the pre, inside a div.paragraph
// whose own predecessor is the h5 group heading. The name joins both
// headings ("サンプル1 入力").
func parseSampleTag(pre *html.Node) (text, name string, ok bool) {
	prev := htmlutil.PrevSiblingElement(pre)
	if prev == nil || prev.Data != "h6" {
		return "", "", false
	}
	parent := pre.Parent
	if parent == nil || parent.Data != "div" || !hasClass(parent, "paragraph") {
		return "", "", false
	}
	group := htmlutil.PrevSiblingElement(parent)
	if group == nil || group.Data != "h5" {
		return "", "", false
	}

	text = strings.TrimLeft(htmlutil.GetText(pre), " \t\r\n")
	name = strings.TrimSpace(htmlutil.GetText(group)) + " " + strings.TrimSpace(htmlutil.GetText(prev))
	return text, name, true
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// DownloadSampleCases scrapes the statement's sample pairs.
func (p *Problem) DownloadSampleCases(ctx context.Context, s *session.Session) ([]judge.TestCase, error) {
	ctx, span := tracer.Start(ctx, "problem:DownloadSampleCases")
	defer span.End()

	body, err := s.Download(ctx, baseURL+p.path())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var zipper samples.Zipper
	for _, pre := range doc.Find("pre").Nodes {
		text, name, ok := parseSampleTag(pre)
		if !ok {
			continue
		}
		zipper.Add(text, name)
	}
	return zipper.Pairs(), nil
}

// DownloadAllCases fetches the problem's full testcase archive, which is
// only addressable by problem number.
func (p *Problem) DownloadAllCases(ctx context.Context, s *session.Session) ([]judge.TestCase, error) {
	ctx, span := tracer.Start(ctx, "problem:DownloadAllCases")
	defer span.End()

	if p.No == 0 {
		return nil, fmt.Errorf("testcase archive needs the problem number, not the internal id")
	}
	body, err := s.Download(ctx, fmt.Sprintf("%s/problems/no/%d/testcase.zip", baseURL, p.No))
	if err != nil {
		return nil, err
	}
	return samples.PairZip(body)
}

var submitActionRegex = regexp.MustCompile(`/submit$`)
var submitResultPathRegex = regexp.MustCompile(`^/submissions/[0-9]+/?$`)

// Submit sends source code through the problem's submit form. Success is
// classified by the final URL: the judge redirects an accepted
// submission to its submission page and everything else elsewhere.
func (p *Problem) Submit(ctx context.Context, s *session.Session, code []byte, language string) (string, error) {
	ctx, span := tracer.Start(ctx, "problem:Submit")
	defer span.End()

	if !IsKnownLanguage(language) {
		return "", &judge.SubmissionError{Reason: fmt.Sprintf("unknown language: %q", language)}
	}

	res, err := s.Get(ctx, baseURL+p.path()+"/submit")
	if err != nil {
		return "", err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", err
	}

	var formSel *goquery.Selection
	doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
		if submitActionRegex.MatchString(f.AttrOr("action", "")) {
			formSel = f
			return false
		}
		return true
	})
	if formSel == nil {
		// the submit form is only rendered for signed-in users
		return "", &judge.SubmissionError{Reason: judge.ErrNotLoggedIn.Error()}
	}

	form, err := forms.New(formSel, session.FinalURL(res))
	if err != nil {
		return "", &judge.SubmissionError{Reason: err.Error()}
	}
	form.Set("source", string(code))
	form.Set("lang", language)

	res, err = form.Submit(ctx, s, session.RequestOptions{})
	if err != nil {
		return "", err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}

	// an accepted submission is redirected to its own submission page
	final := session.FinalURL(res)
	if !onHome(final) || !submitResultPathRegex.MatchString(final.Path) {
		return "", &judge.SubmissionError{Reason: "unexpected redirect", Location: final.String()}
	}
	slog.InfoContext(ctx, "submission accepted", "result", final.String())
	return final.String(), nil
}
