package atcoder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/samples"
	"judgetools/lib/session"
)

var (
	taskPathRegex   = regexp.MustCompile(`^/contests/([\w\-]+)/tasks/([\w\-]+)$`)
	timeLimitRegex  = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?) sec$`)
	memLimitRegex   = regexp.MustCompile(`^([0-9]+) MB$`)
	submitHrefRegex = regexp.MustCompile(`^/submit\?task_id=([0-9]+)$`)
)

// Problem identity is (contest id, task screen name). Metadata fields
// are cached once populated, either from the contest's task listing or
// by LoadDetails.
type Problem struct {
	ContestID string
	ProblemID string

	taskID        int
	title         string
	alphabet      string
	timeLimitMS   int
	memoryLimitMB int
}

func NewProblem(contestID, problemID string) *Problem {
	return &Problem{ContestID: contestID, ProblemID: problemID}
}

func ProblemFromURL(s string) *Problem {
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	// example: http://agc012.contest.atcoder.jp/tasks/agc012_d
	if strings.Count(u.Host, ".") == 3 && strings.HasSuffix(u.Host, ".contest.atcoder.jp") {
		contestID := strings.SplitN(u.Host, ".", 2)[0]
		dir, base := path.Split(normpath(u.Path))
		if contestID != "" && dir == "/tasks/" && base != "" {
			return NewProblem(contestID, base)
		}
	}

	// example: https://atcoder.jp/contests/abc073/tasks/abc073_a
	if u.Host == "atcoder.jp" || u.Host == "beta.atcoder.jp" {
		m := taskPathRegex.FindStringSubmatch(normpath(u.Path))
		if m != nil {
			return NewProblem(m[1], m[2])
		}
	}

	return nil
}

func (p *Problem) URL() string {
	return fmt.Sprintf("http://%s.contest.atcoder.jp/tasks/%s", p.ContestID, p.ProblemID)
}

func (p *Problem) Service() judge.Service {
	return Service{}
}

func (p *Problem) Contest() *Contest {
	return NewContest(p.ContestID)
}

// problemFromTaskRow decodes one row of a contest's task listing. The
// limit columns must match their expected unit suffixes exactly; a row
// that does not is rejected rather than guessed at.
func problemFromTaskRow(row *goquery.Selection) (*Problem, error) {
	tds := row.Find("td")
	if tds.Length() != 5 {
		return nil, fmt.Errorf("expected 5 cells in task row, got %d", tds.Length())
	}

	href := tds.Eq(1).Find("a").First().AttrOr("href", "")
	p := ProblemFromURL("https://atcoder.jp" + href)
	if p == nil {
		return nil, fmt.Errorf("task row does not link a task: %q", href)
	}

	p.alphabet = strings.TrimSpace(tds.Eq(0).Text())
	p.title = strings.TrimSpace(tds.Eq(1).Text())

	timeText := strings.TrimSpace(tds.Eq(2).Text())
	m := timeLimitRegex.FindStringSubmatch(timeText)
	if m == nil {
		return nil, fmt.Errorf("malformed time limit: %q", timeText)
	}
	seconds, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil, fmt.Errorf("malformed time limit: %q", timeText)
	}
	p.timeLimitMS = int(seconds * 1000)

	memText := strings.TrimSpace(tds.Eq(3).Text())
	m = memLimitRegex.FindStringSubmatch(memText)
	if m == nil {
		return nil, fmt.Errorf("malformed memory limit: %q", memText)
	}
	p.memoryLimitMB, err = strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("malformed memory limit: %q", memText)
	}

	return p, nil
}

// LoadDetails populates the cached metadata from the contest's task
// listing. Accessors fail with judge.ErrNotLoaded until this (or a
// listing fetch) has run.
func (p *Problem) LoadDetails(ctx context.Context, s *session.Session) error {
	problems, err := p.Contest().Problems(ctx, s)
	if err != nil {
		return err
	}
	for _, loaded := range problems {
		if loaded.ProblemID == p.ProblemID {
			p.alphabet = loaded.alphabet
			p.title = loaded.title
			p.timeLimitMS = loaded.timeLimitMS
			p.memoryLimitMB = loaded.memoryLimitMB
			return nil
		}
	}
	return fmt.Errorf("task %s not listed in contest %s", p.ProblemID, p.ContestID)
}

func (p *Problem) Title() (string, error) {
	if p.title == "" {
		return "", judge.ErrNotLoaded
	}
	return p.title, nil
}

func (p *Problem) Alphabet() (string, error) {
	if p.alphabet == "" {
		return "", judge.ErrNotLoaded
	}
	return p.alphabet, nil
}

func (p *Problem) TimeLimitMS() (int, error) {
	if p.timeLimitMS == 0 {
		return 0, judge.ErrNotLoaded
	}
	return p.timeLimitMS, nil
}

func (p *Problem) MemoryLimitMB() (int, error) {
	if p.memoryLimitMB == 0 {
		return 0, judge.ErrNotLoaded
	}
	return p.memoryLimitMB, nil
}

type sampleBlock struct {
	pre  *html.Node
	head *html.Node
}

// findSampleBlocks locates the pre tags holding sample data, in document
// order. AtCoder has used two statement layouts: an h3 directly followed
// by a pre, and an h3 followed by a section wrapping the pre.
func findSampleBlocks(doc *goquery.Document) []sampleBlock {
	var blocks []sampleBlock
	for _, pre := range doc.Find("pre").Nodes {
		if strings.TrimSpace(htmlutil.GetText(pre)) == "" {
			continue
		}

		prev := htmlutil.PrevSiblingElement(pre)
		if prev != nil && prev.Data == "h3" {
			blocks = append(blocks, sampleBlock{pre: pre, head: prev})
			continue
		}

		// ignore pre tags that merely follow other pre tags, those are
		// formatting examples, not samples
		for prev != nil && prev.Data != "pre" {
			prev = htmlutil.PrevSiblingElement(prev)
		}
		if prev != nil {
			continue
		}

		if pre.Parent != nil && pre.Parent.Data == "section" {
			ph := htmlutil.PrevSiblingElement(pre.Parent)
			if ph != nil && ph.Data == "h3" {
				blocks = append(blocks, sampleBlock{pre: pre, head: ph})
			}
		}
	}
	return blocks
}

// DownloadSampleCases scrapes the sample pairs off the problem statement.
// A statement the session cannot see (the judge answers with a flash
// message instead of content) degrades to an empty result with a
// warning, since anonymous access is often legitimately restricted.
func (p *Problem) DownloadSampleCases(ctx context.Context, s *session.Session) ([]judge.TestCase, error) {
	ctx, span := tracer.Start(ctx, "problem:DownloadSampleCases")
	defer span.End()

	res, err := s.Get(ctx, p.URL())
	if err != nil {
		return nil, err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		slog.WarnContext(ctx, "the judge hid the problem statement, are you logged in?", "problem", p.ProblemID)
		return nil, nil
	}
	err = session.CheckStatus(res)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return nil, err
	}

	// statements repeat every sample once per language variant; keep the
	// first language seen and skip the rest
	var zipper samples.Zipper
	lang := ""
	for _, block := range findSampleBlocks(doc) {
		text := strings.TrimLeft(htmlutil.GetText(block.pre), " \t\r\n")
		name := strings.TrimSpace(htmlutil.GetText(block.head))
		blockLang := htmlutil.AncestorClass(block.pre, "lang-")
		if lang == "" {
			lang = blockLang
		} else if lang != blockLang {
			slog.DebugContext(ctx, "skipping sample in other language", "want", lang, "got", blockLang, "name", name)
			continue
		}
		zipper.Add(text, name)
	}
	return zipper.Pairs(), nil
}

// InputFormat extracts the input format description: the pre or
// blockquote shortly after the "Input" (or 入力) heading.
func (p *Problem) InputFormat(ctx context.Context, s *session.Session) (string, error) {
	ctx, span := tracer.Start(ctx, "problem:InputFormat")
	defer span.End()

	res, err := s.Get(ctx, p.URL())
	if err != nil {
		return "", err
	}
	msgs := messagesFromCookies(res.Cookies())
	if len(msgs) > 0 {
		reportMessages(msgs)
		return "", nil
	}
	err = session.CheckStatus(res)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return "", err
	}

	for _, h3 := range doc.Find("h3").Nodes {
		title := strings.TrimSpace(htmlutil.GetText(h3))
		if title != "Input" && title != "入力" {
			continue
		}
		node := h3
		for i := 0; i < 3; i++ {
			node = htmlutil.NextSiblingElement(node)
			if node == nil {
				break
			}
			if node.Data == "pre" || node.Data == "blockquote" {
				return htmlutil.GetText(node), nil
			}
		}
	}
	return "", nil
}
