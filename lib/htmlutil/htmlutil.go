package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// PrevSiblingElement walks backwards past text and comment nodes to the
// nearest element sibling, or nil. Sample statements interleave headings
// and pre blocks with whitespace-only text nodes this skips over.
func PrevSiblingElement(node *html.Node) *html.Node {
	for n := node.PrevSibling; n != nil; n = n.PrevSibling {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// NextSiblingElement is the forward counterpart of PrevSiblingElement.
func NextSiblingElement(node *html.Node) *html.Node {
	for n := node.NextSibling; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return n
		}
	}
	return nil
}

// FirstNonEmptyText returns the first non-whitespace text found in a
// depth-first walk of the selection, trimmed.
func FirstNonEmptyText(sel *goquery.Selection) string {
	for _, node := range sel.Nodes {
		text := strings.TrimSpace(GetText(node))
		if text != "" {
			return text
		}
	}
	return ""
}

// AncestorClass searches a node's ancestors for a class with the given
// prefix and returns the full class name, or "".
func AncestorClass(node *html.Node, prefix string) string {
	for n := node.Parent; n != nil; n = n.Parent {
		for _, attr := range n.Attr {
			if attr.Key != "class" {
				continue
			}
			for _, cls := range strings.Fields(attr.Val) {
				if strings.HasPrefix(cls, prefix) {
					return cls
				}
			}
		}
	}
	return ""
}
