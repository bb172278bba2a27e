package htmlutil

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	require.NoError(t, err)
	return doc
}

func TestGetText(t *testing.T) {
	doc := parse(t, `<div>a <b>bold</b> move</div>`)
	require.Equal(t, "a bold move", GetText(doc.Find("div").Nodes[0]))
}

func TestSiblingElements(t *testing.T) {
	doc := parse(t, `<div>
		<h3>Heading</h3>
		text in between
		<pre>sample</pre>
	</div>`)
	pre := doc.Find("pre").Nodes[0]
	h3 := doc.Find("h3").Nodes[0]

	require.Equal(t, h3, PrevSiblingElement(pre))
	require.Equal(t, pre, NextSiblingElement(h3))
	require.Nil(t, PrevSiblingElement(h3))
	require.Nil(t, NextSiblingElement(pre))
}

func TestFirstNonEmptyText(t *testing.T) {
	doc := parse(t, `<div><span>  </span><span>hello</span></div>`)
	require.Equal(t, "hello", FirstNonEmptyText(doc.Find("span")))

	doc = parse(t, `<div><span>  </span></div>`)
	require.Equal(t, "", FirstNonEmptyText(doc.Find("span")))
}

func TestAncestorClass(t *testing.T) {
	doc := parse(t, `<div class="part lang-en"><section><pre>x</pre></section></div>`)
	pre := doc.Find("pre").Nodes[0]

	require.Equal(t, "lang-en", AncestorClass(pre, "lang-"))
	require.Equal(t, "", AncestorClass(pre, "theme-"))
}
