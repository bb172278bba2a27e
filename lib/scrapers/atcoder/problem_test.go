package atcoder

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"judgetools/lib/htmlutil"
	"judgetools/lib/judge"
	"judgetools/lib/samples"
)

func TestProblemFromURL(t *testing.T) {
	for _, tt := range []struct {
		url         string
		wantContest string
		wantProblem string
	}{
		{"http://agc012.contest.atcoder.jp/tasks/agc012_d", "agc012", "agc012_d"},
		{"https://kupc2014.contest.atcoder.jp/tasks/kupc2014_d", "kupc2014", "kupc2014_d"},
		{"https://atcoder.jp/contests/abc073/tasks/abc073_a", "abc073", "abc073_a"},
		{"https://beta.atcoder.jp/contests/abc073/tasks/abc073_a/", "abc073", "abc073_a"},
		{"https://atcoder.jp/contests/abc073", "", ""},
		{"http://agc012.contest.atcoder.jp/submissions/123", "", ""},
		{"https://example.com/contests/abc073/tasks/abc073_a", "", ""},
	} {
		p := ProblemFromURL(tt.url)
		if tt.wantContest == "" {
			require.Nil(t, p, tt.url)
			continue
		}
		require.NotNil(t, p, tt.url)
		require.Equal(t, tt.wantContest, p.ContestID, tt.url)
		require.Equal(t, tt.wantProblem, p.ProblemID, tt.url)
	}
}

func TestProblemURLRoundTrip(t *testing.T) {
	p := NewProblem("agc012", "agc012_d")
	require.Equal(t, "http://agc012.contest.atcoder.jp/tasks/agc012_d", p.URL())

	again := ProblemFromURL(p.URL())
	require.NotNil(t, again)
	require.Equal(t, p.ContestID, again.ContestID)
	require.Equal(t, p.ProblemID, again.ProblemID)
}

func TestProblemAccessorsBeforeLoad(t *testing.T) {
	p := NewProblem("abc073", "abc073_a")

	_, err := p.Title()
	require.ErrorIs(t, err, judge.ErrNotLoaded)
	_, err = p.Alphabet()
	require.ErrorIs(t, err, judge.ErrNotLoaded)
	_, err = p.TimeLimitMS()
	require.ErrorIs(t, err, judge.ErrNotLoaded)
	_, err = p.MemoryLimitMB()
	require.ErrorIs(t, err, judge.ErrNotLoaded)
}

func taskRow(t *testing.T, cells string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tbody><tr>` + cells + `</tr></tbody></table>`,
	))
	require.NoError(t, err)
	return doc.Find("tbody tr")
}

func TestProblemFromTaskRow(t *testing.T) {
	row := taskRow(t, `
		<td>A</td>
		<td><a href="/contests/abc073/tasks/abc073_a">September 9</a></td>
		<td>2.5 sec</td>
		<td>256 MB</td>
		<td><a href="/contests/abc073/submit?task_id=1173">Submit</a></td>
	`)

	p, err := problemFromTaskRow(row)
	require.NoError(t, err)
	require.Equal(t, "abc073", p.ContestID)
	require.Equal(t, "abc073_a", p.ProblemID)

	alphabet, err := p.Alphabet()
	require.NoError(t, err)
	require.Equal(t, "A", alphabet)

	title, err := p.Title()
	require.NoError(t, err)
	require.Equal(t, "September 9", title)

	limit, err := p.TimeLimitMS()
	require.NoError(t, err)
	require.Equal(t, 2500, limit)

	mem, err := p.MemoryLimitMB()
	require.NoError(t, err)
	require.Equal(t, 256, mem)
}

func TestProblemFromTaskRowRejectsMalformedLimits(t *testing.T) {
	for _, tt := range []struct {
		name string
		time string
		mem  string
	}{
		{"time in msec", "2000 msec", "256 MB"},
		{"time without unit", "2", "256 MB"},
		{"memory in KB", "2 sec", "262144 KB"},
		{"memory with decimals", "2 sec", "256.0 MB"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			row := taskRow(t, `
				<td>A</td>
				<td><a href="/contests/abc073/tasks/abc073_a">Title</a></td>
				<td>`+tt.time+`</td>
				<td>`+tt.mem+`</td>
				<td></td>
			`)
			_, err := problemFromTaskRow(row)
			require.Error(t, err)
		})
	}
}

const statementModern = `
<html><body>
<span class="lang-en">
	<h3>Sample Input 1</h3><pre>1 2
</pre>
	<h3>Sample Output 1</h3><pre>3
</pre>
</span>
<span class="lang-ja">
	<h3>入力例 1</h3><pre>1 2
</pre>
	<h3>出力例 1</h3><pre>3
</pre>
</span>
</body></html>
`

const statementSections = `
<html><body>
<h3>Sample Input 1</h3>
<section><pre>1 2
</pre></section>
<h3>Sample Output 1</h3>
<section><pre>3
</pre></section>
</body></html>
`

const statementWithFormattingPre = `
<html><body>
<h3>Input</h3><pre>N M
</pre>
<pre>this pre follows another pre and is not a sample
</pre>
<h3>Sample Input 1</h3><pre>3 4
</pre>
<h3>Sample Output 1</h3><pre>12
</pre>
</body></html>
`

func TestFindSampleBlocks(t *testing.T) {
	for _, tt := range []struct {
		name  string
		page  string
		heads []string
	}{
		{"h3 then pre", statementModern, []string{"Sample Input 1", "Sample Output 1", "入力例 1", "出力例 1"}},
		{"h3 then section", statementSections, []string{"Sample Input 1", "Sample Output 1"}},
		{"pre after pre skipped", statementWithFormattingPre, []string{"Input", "Sample Input 1", "Sample Output 1"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(tt.page))
			require.NoError(t, err)

			var heads []string
			for _, b := range findSampleBlocks(doc) {
				heads = append(heads, strings.TrimSpace(htmlutil.GetText(b.head)))
			}
			require.Equal(t, tt.heads, heads)
		})
	}
}

func TestSampleBlocksLanguageFilter(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(statementModern))
	require.NoError(t, err)

	// mirror the scrape: keep the first language variant only
	var zipper samples.Zipper
	lang := ""
	for _, block := range findSampleBlocks(doc) {
		blockLang := htmlutil.AncestorClass(block.pre, "lang-")
		if lang == "" {
			lang = blockLang
		} else if lang != blockLang {
			continue
		}
		zipper.Add(htmlutil.GetText(block.pre), strings.TrimSpace(htmlutil.GetText(block.head)))
	}

	want := []judge.TestCase{{Name: "Sample Input 1", Input: "1 2\n", Output: "3\n"}}
	require.Empty(t, cmp.Diff(want, zipper.Pairs()))
}
