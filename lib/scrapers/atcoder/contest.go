package atcoder

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"judgetools/lib/judge"
	"judgetools/lib/session"
)

var jst = time.FixedZone("JST", 9*60*60)

var contestPathRegex = regexp.MustCompile(`^/contests/([\w\-]+)/?$`)

// Contest identity is the contest id; the remaining fields are only
// populated when the contest came out of the archive listing, and their
// accessors return judge.ErrNotLoaded before that.
type Contest struct {
	ID string

	startTimeURL string
	nameJA       string
	nameEN       string
	durationText string
	ratedRange   string
}

func NewContest(contestID string) *Contest {
	return &Contest{ID: contestID}
}

func ContestFromURL(s string) *Contest {
	u, err := url.Parse(s)
	if err != nil {
		return nil
	}
	if u.Scheme != "" && u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}

	// example: https://kupc2014.contest.atcoder.jp/
	if strings.HasSuffix(u.Host, ".contest.atcoder.jp") {
		return NewContest(strings.TrimSuffix(u.Host, ".contest.atcoder.jp"))
	}

	// example: https://atcoder.jp/contests/agc030
	if u.Host == "atcoder.jp" || u.Host == "beta.atcoder.jp" {
		m := contestPathRegex.FindStringSubmatch(normpath(u.Path))
		if m != nil {
			return NewContest(m[1])
		}
	}

	return nil
}

func (c *Contest) URL() string {
	return fmt.Sprintf("https://atcoder.jp/contests/%s", c.ID)
}

func (c *Contest) Service() judge.Service {
	return Service{}
}

// StartTime decodes the timeanddate.com anchor the archive listing links
// the start time through; its query carries an ISO-ish stamp in JST.
func (c *Contest) StartTime() (time.Time, error) {
	if c.startTimeURL == "" {
		return time.Time{}, judge.ErrNotLoaded
	}
	u, err := url.Parse(c.startTimeURL)
	if err != nil {
		return time.Time{}, err
	}
	query := u.Query()
	if query.Get("p1") != "248" {
		return time.Time{}, fmt.Errorf("unexpected time zone in start time url: %s", c.startTimeURL)
	}
	t, err := time.ParseInLocation("20060102T1504", query.Get("iso"), jst)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse start time %q: %w", query.Get("iso"), err)
	}
	return t, nil
}

// Name returns the contest name in the given language ("ja" or "en"),
// or whichever one is loaded when lang is empty.
func (c *Contest) Name(lang string) (string, error) {
	switch lang {
	case "":
		if c.nameEN != "" {
			return c.nameEN, nil
		}
		if c.nameJA != "" {
			return c.nameJA, nil
		}
		return "", judge.ErrNotLoaded
	case "en":
		if c.nameEN == "" {
			return "", judge.ErrNotLoaded
		}
		return c.nameEN, nil
	case "ja":
		if c.nameJA == "" {
			return "", judge.ErrNotLoaded
		}
		return c.nameJA, nil
	}
	return "", fmt.Errorf("unknown language: %q", lang)
}

func (c *Contest) Duration() (time.Duration, error) {
	if c.durationText == "" {
		return 0, judge.ErrNotLoaded
	}
	parts := strings.SplitN(c.durationText, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed contest duration: %q", c.durationText)
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("malformed contest duration: %q", c.durationText)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, fmt.Errorf("malformed contest duration: %q", c.durationText)
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute, nil
}

func (c *Contest) RatedRange() (string, error) {
	if c.ratedRange == "" {
		return "", judge.ErrNotLoaded
	}
	return c.ratedRange, nil
}

// Problems lists the contest's tasks with the metadata the listing table
// carries (letter, title, limits).
func (c *Contest) Problems(ctx context.Context, s *session.Session) ([]*Problem, error) {
	ctx, span := tracer.Start(ctx, "contest:Problems")
	defer span.End()

	body, err := s.Download(ctx, fmt.Sprintf("%s/contests/%s/tasks", baseURL, c.ID))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var problems []*Problem
	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		p, err := problemFromTaskRow(row)
		if err != nil {
			slog.WarnContext(ctx, "skipping unparsable task row", "contest", c.ID, "err", err)
			return
		}
		problems = append(problems, p)
	})
	return problems, nil
}

func contestFromArchiveRow(row *goquery.Selection, lang string) (*Contest, error) {
	tds := row.Find("td")
	if tds.Length() != 4 {
		return nil, fmt.Errorf("expected 4 cells in archive row, got %d", tds.Length())
	}

	timeAnchor := tds.Eq(0).Find("a").First()
	contestAnchor := tds.Eq(1).Find("a").First()
	contestPath := contestAnchor.AttrOr("href", "")
	if !strings.HasPrefix(contestPath, "/contests/") {
		return nil, fmt.Errorf("archive row does not link a contest: %q", contestPath)
	}

	c := NewContest(strings.TrimPrefix(contestPath, "/contests/"))
	c.startTimeURL = timeAnchor.AttrOr("href", "")
	switch lang {
	case "ja":
		c.nameJA = strings.TrimSpace(contestAnchor.Text())
	case "en":
		c.nameEN = strings.TrimSpace(contestAnchor.Text())
	}
	c.durationText = strings.TrimSpace(tds.Eq(2).Text())
	c.ratedRange = strings.TrimSpace(tds.Eq(3).Text())
	return c, nil
}

// ContestIterator walks the paginated contest archive lazily: page 1
// reveals the page count, later pages are fetched only as the caller
// keeps asking for more contests. Stopping early costs nothing.
type ContestIterator struct {
	ctx  context.Context
	sess *session.Session
	lang string

	page     int
	lastPage int
	queue    []*Contest
	current  *Contest
	err      error
	done     bool
}

// Contests returns a lazy iterator over all contests in the archive.
// lang must be "ja" or "en"; "ja" is required to see some
// Japanese-local contests, "en" yields English contest names.
func (Service) Contests(ctx context.Context, s *session.Session, lang string) *ContestIterator {
	if lang != "ja" && lang != "en" {
		return &ContestIterator{err: fmt.Errorf("unknown language: %q", lang), done: true}
	}
	return &ContestIterator{ctx: ctx, sess: s, lang: lang, page: 1}
}

func (it *ContestIterator) fetchPage() error {
	body, err := it.sess.Download(it.ctx, fmt.Sprintf(
		"%s/contests/archive?lang=%s&page=%d", baseURL, it.lang, it.page,
	))
	if err != nil {
		return err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return err
	}

	if it.lastPage == 0 {
		last := strings.TrimSpace(doc.Find("ul.pagination li").Last().Text())
		it.lastPage, err = strconv.Atoi(last)
		if err != nil {
			return fmt.Errorf("pagination control not found on archive page %d", it.page)
		}
		slog.DebugContext(it.ctx, "discovered archive page count", "last_page", it.lastPage)
	}

	doc.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		c, err := contestFromArchiveRow(row, it.lang)
		if err != nil {
			slog.WarnContext(it.ctx, "skipping unparsable archive row", "page", it.page, "err", err)
			return
		}
		it.queue = append(it.queue, c)
	})
	it.page++
	return nil
}

// Next advances the iterator, fetching the next listing page as needed.
// It never requests a page past the bound discovered on page 1.
func (it *ContestIterator) Next() bool {
	if it.done {
		return false
	}
	for len(it.queue) == 0 {
		if it.lastPage != 0 && it.page > it.lastPage {
			it.done = true
			return false
		}
		err := it.fetchPage()
		if err != nil {
			it.err = err
			it.done = true
			return false
		}
	}
	it.current = it.queue[0]
	it.queue = it.queue[1:]
	return true
}

func (it *ContestIterator) Contest() *Contest {
	return it.current
}

func (it *ContestIterator) Err() error {
	return it.err
}
