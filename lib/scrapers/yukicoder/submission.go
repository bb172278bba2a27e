package yukicoder

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/session"
)

var submissionURLRegex = regexp.MustCompile(`^https?://yukicoder\.me/submissions/([0-9]+)/?$`)

type Submission struct {
	SubmissionID int
}

func NewSubmission(submissionID int) *Submission {
	return &Submission{SubmissionID: submissionID}
}

func SubmissionFromURL(s string) *Submission {
	m := submissionURLRegex.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return NewSubmission(id)
}

func (s *Submission) URL() string {
	return fmt.Sprintf("https://yukicoder.me/submissions/%d", s.SubmissionID)
}

func (s *Submission) Service() judge.Service {
	return Service{}
}

// DownloadSource re-fetches the submission page and returns the rendered
// source code block. Idempotent, nothing is cached.
func (s *Submission) DownloadSource(ctx context.Context, sess *session.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "submission:DownloadSource")
	defer span.End()

	body, err := sess.Download(ctx, fmt.Sprintf("%s/submissions/%d", baseURL, s.SubmissionID))
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	code := doc.Find("pre#code")
	if code.Length() == 0 {
		// older submission pages render the source in the first pre
		for _, pre := range doc.Find("pre").Nodes {
			if strings.TrimSpace(htmlutil.GetText(pre)) != "" {
				return htmlutil.GetText(pre), nil
			}
		}
		return "", fmt.Errorf("source code not found on submission page")
	}
	return code.Text(), nil
}
