package dwa

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/dwatools/go-dwa/pkg/urn"
)

// DocumentObject is a single object row of a document page, parsed from
// the getPage HTML. HeadingNum, HeadingText, and Identifier are "" when
// the row does not carry them.
type DocumentObject struct {
	URN             urn.URN
	ObjectID        string
	ParagraphNumber string
	Identifier      string
	HeadingNum      string
	HeadingText     string
}

// ParseDocumentPage parses a getPage HTML response into its object rows.
// Each object renders as a table element carrying guid, urn, and objectid
// attributes; the identifier lives in the column5 cell and the heading in
// the column6 cell. Row order is preserved. A row with a malformed URN
// fails the parse.
func ParseDocumentPage(page []byte) ([]DocumentObject, error) {
	doc, err := html.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("malformed document page: %w", err)
	}

	var objects []DocumentObject
	var walkErr error

	forEachNode(doc, func(n *html.Node) {
		if walkErr != nil || !isObjectTable(n) {
			return
		}
		obj, err := parseObjectTable(n)
		if err != nil {
			walkErr = err
			return
		}
		objects = append(objects, obj)
	})

	if walkErr != nil {
		return nil, walkErr
	}
	return objects, nil
}

func parseObjectTable(table *html.Node) (DocumentObject, error) {
	objectURN, err := urn.Parse(attr(table, "urn"))
	if err != nil {
		return DocumentObject{}, fmt.Errorf("object table %q: %w", attr(table, "objectid"), err)
	}

	obj := DocumentObject{
		URN:             objectURN,
		ObjectID:        attr(table, "objectid"),
		ParagraphNumber: attr(table, "paragraphnumber"),
	}

	if cell := findNode(table, func(n *html.Node) bool {
		return n.Data == "td" && hasClass(n, "column5")
	}); cell != nil {
		obj.Identifier = strippedText(cell)
	}

	if cell := findNode(table, func(n *html.Node) bool {
		return n.Data == "td" && hasClass(n, "column6")
	}); cell != nil {
		if span := findNode(cell, func(n *html.Node) bool {
			return n.Data == "span" && hasClass(n, "headingNum")
		}); span != nil {
			obj.HeadingNum = strippedText(span)
		}
		if div := findNode(cell, func(n *html.Node) bool {
			return n.Data == "div" && hasClassPrefix(n, "heading")
		}); div != nil {
			heading := strippedText(div)
			if obj.HeadingNum != "" && strings.HasPrefix(heading, obj.HeadingNum) {
				heading = strings.TrimSpace(strings.TrimPrefix(heading, obj.HeadingNum))
			}
			obj.HeadingText = heading
		}
	}

	return obj, nil
}

func isObjectTable(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != "table" {
		return false
	}
	return hasAttr(n, "guid") && hasAttr(n, "urn") && hasAttr(n, "objectid")
}

// forEachNode visits n and all its descendants in document order.
func forEachNode(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		forEachNode(c, fn)
	}
}

// findNode returns the first descendant element matching the predicate.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && match(c) {
			return c
		}
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// strippedText concatenates all text beneath n, each fragment trimmed.
func strippedText(n *html.Node) string {
	var b strings.Builder
	forEachNode(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(c.Data))
		}
	})
	return b.String()
}

func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Key == name {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func hasClassPrefix(n *html.Node, prefix string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
