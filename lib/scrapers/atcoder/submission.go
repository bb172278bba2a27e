package atcoder

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/session"
)

var submissionPathRegex = regexp.MustCompile(`^/contests/([\w\-]+)/submissions/(\d+)$`)

// Submission identity is (contest id, submission id); the task it was
// made for is carried along when known.
type Submission struct {
	ContestID    string
	SubmissionID int
	ProblemID    string
}

func NewSubmission(contestID string, submissionID int) *Submission {
	return &Submission{ContestID: contestID, SubmissionID: submissionID}
}

func SubmissionFromURL(s string) *Submission {
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	// example: http://agc001.contest.atcoder.jp/submissions/1246803
	if strings.Count(u.Host, ".") == 3 && strings.HasSuffix(u.Host, ".contest.atcoder.jp") {
		contestID := strings.SplitN(u.Host, ".", 2)[0]
		dir, base := path.Split(normpath(u.Path))
		if contestID != "" && dir == "/submissions/" {
			id, err := strconv.Atoi(base)
			if err == nil {
				return NewSubmission(contestID, id)
			}
		}
	}

	// example: https://beta.atcoder.jp/contests/abc073/submissions/1592381
	if u.Host == "atcoder.jp" || u.Host == "beta.atcoder.jp" {
		m := submissionPathRegex.FindStringSubmatch(normpath(u.Path))
		if m != nil {
			id, err := strconv.Atoi(m[2])
			if err == nil {
				return NewSubmission(m[1], id)
			}
		}
	}

	return nil
}

func (s *Submission) URL() string {
	return fmt.Sprintf("http://%s.contest.atcoder.jp/submissions/%d", s.ContestID, s.SubmissionID)
}

func (s *Submission) Service() judge.Service {
	return Service{}
}

func (s *Submission) Problem() (*Problem, error) {
	if s.ProblemID == "" {
		return nil, judge.ErrNotLoaded
	}
	return NewProblem(s.ContestID, s.ProblemID), nil
}

// DownloadSource re-fetches the submission page and returns the rendered
// source code: the pre following the "Source code" heading.
func (s *Submission) DownloadSource(ctx context.Context, sess *session.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "submission:DownloadSource")
	defer span.End()

	res, err := sess.Get(ctx, s.URL())
	if err != nil {
		return "", err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		return "", fmt.Errorf("the judge hid the submission, are you logged in?")
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", err
	}

	for _, pre := range doc.Find("pre").Nodes {
		prev := htmlutil.PrevSiblingElement(pre)
		if prev == nil || prev.Data != "h3" {
			continue
		}
		if strings.Contains(htmlutil.GetText(prev), "Source code") {
			return htmlutil.GetText(pre), nil
		}
	}
	return "", fmt.Errorf("source code not found on submission page")
}
