package atcoder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"judgetools/lib/forms"
	"judgetools/lib/judge"
	"judgetools/lib/session"
)

// Languages lists the submittable languages for this problem's contest
// as id -> description. A logged-out session gets an empty map and a
// warning, not an error.
func (p *Problem) Languages(ctx context.Context, s *session.Session) (map[string]string, error) {
	ctx, span := tracer.Start(ctx, "problem:Languages")
	defer span.End()

	res, err := s.Get(ctx, contestHost(p.ContestID)+"/submit")
	if err != nil {
		return nil, err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		return map[string]string{}, nil
	}
	if strings.HasPrefix(normpath(session.FinalURL(res).Path), "/login") {
		slog.WarnContext(ctx, "cannot list languages while logged out")
		return map[string]string{}, nil
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	// language sets can actually vary per task within one contest; the
	// first selector on the submit page is close enough for callers
	// validating a language id
	languages := map[string]string{}
	doc.Find("select.submit-language-selector option").Each(func(_ int, opt *goquery.Selection) {
		value, ok := opt.Attr("value")
		if !ok {
			return
		}
		languages[value] = strings.TrimSpace(opt.Text())
	})
	return languages, nil
}

// TaskID resolves the site-internal numeric task identifier from the
// statement page's submit link. Cached after first resolution.
func (p *Problem) TaskID(ctx context.Context, s *session.Session) (int, error) {
	if p.taskID != 0 {
		return p.taskID, nil
	}

	res, err := s.Get(ctx, p.URL())
	if err != nil {
		return 0, err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		return 0, &judge.SubmissionError{Reason: "cannot see the problem statement"}
	}
	err = session.CheckStatus(res)
	if err != nil {
		return 0, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return 0, err
	}

	href := doc.Find(`a[href^="/submit?task_id="]`).First().AttrOr("href", "")
	m := submitHrefRegex.FindStringSubmatch(href)
	if m == nil {
		return 0, &judge.SubmissionError{Reason: "link to submit not found"}
	}
	p.taskID, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, &judge.SubmissionError{Reason: fmt.Sprintf("malformed task id: %q", href)}
	}
	return p.taskID, nil
}

// Submit sends source code through the scraped submit form. The judge
// answers with nothing but a redirect, so success is classified by the
// destination URL: landing on the "my submissions" page means accepted
// for judging, anything else is a failure.
func (p *Problem) Submit(ctx context.Context, s *session.Session, code []byte, language string) (string, error) {
	ctx, span := tracer.Start(ctx, "problem:Submit")
	defer span.End()

	res, err := s.Get(ctx, contestHost(p.ContestID)+"/submit")
	if err != nil {
		return "", err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		return "", &judge.SubmissionError{Reason: "judge rejected the submit page"}
	}
	if strings.HasPrefix(normpath(session.FinalURL(res).Path), "/login") {
		return "", &judge.SubmissionError{Reason: judge.ErrNotLoggedIn.Error()}
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", err
	}

	formSel := doc.Find(`form[action^="/submit?task_id="]`).First()
	if formSel.Length() == 0 {
		return "", &judge.SubmissionError{Reason: "submit form not found"}
	}

	taskID, err := p.TaskID(ctx, s)
	if err != nil {
		return "", err
	}

	form, err := forms.New(formSel, session.FinalURL(res))
	if err != nil {
		return "", &judge.SubmissionError{Reason: err.Error()}
	}
	form.Set("task_id", strconv.Itoa(taskID))
	form.Set("source_code", string(code))
	form.Set(fmt.Sprintf("language_id_%d", taskID), language)

	res, err = form.Submit(ctx, s, session.RequestOptions{})
	if err != nil {
		return "", err
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}
	reportMessages(messagesFromCookies(res.Cookies()))

	final := session.FinalURL(res).String()
	if !submitSucceeded(final) {
		return "", &judge.SubmissionError{Reason: "unexpected redirect", Location: final}
	}
	slog.InfoContext(ctx, "submission accepted", "result", final)

	// the redirect target is the legacy submissions list, not a stable
	// submission URL; hand back the canonical one
	return fmt.Sprintf("https://beta.atcoder.jp/contests/%s/submissions/me", p.ContestID), nil
}

// example success target: https://practice.contest.atcoder.jp/submissions/me#32174
func submitSucceeded(finalURL string) bool {
	return strings.Contains(finalURL, "/submissions/me")
}
