// Package pagetext renders HTML as the text a user would see, one block per
// line, close to what document.body.innerText returns.
package pagetext

import (
	"strings"

	"golang.org/x/net/html"
)

type Config struct {
	TagsToRemove  []string
	MaxOutputSize int
}

var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "template",
		"link", "meta", "head", "title",
	},
	MaxOutputSize: 500_000,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tr": true, "ul": true, "button": true, "label": true,
}

// Extract returns the visible text of rawHTML's body (or of the whole
// fragment when there is no body). Parse failures yield "".
func Extract(rawHTML string, cfg *Config) string {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	root := findBodyNode(doc)
	if root == nil {
		root = doc
	}

	w := &writer{remove: cfg.TagsToRemove}
	w.walk(root)

	return truncate(w.lines(), cfg.MaxOutputSize)
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

type writer struct {
	sb     strings.Builder
	remove []string
}

func (w *writer) walk(n *html.Node) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		w.text(n.Data)
		return
	case html.ElementNode:
		if isOneOf(n.Data, w.remove...) || hidden(n) {
			return
		}
		switch {
		case n.Data == "br":
			w.sb.WriteByte('\n')
			return
		case n.Data == "td" || n.Data == "th":
			defer w.sb.WriteByte(' ')
		case blockTags[n.Data]:
			w.sb.WriteByte('\n')
			defer w.sb.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		w.walk(c)
	}
}

// text appends s with runs of whitespace collapsed to one space.
func (w *writer) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			w.sb.WriteByte(' ')
		}
		return
	}
	if s[0] == ' ' || s[0] == '\n' || s[0] == '\t' {
		w.sb.WriteByte(' ')
	}
	w.sb.WriteString(strings.Join(fields, " "))
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		w.sb.WriteByte(' ')
	}
}

// lines trims every line and drops the empty ones.
func (w *writer) lines() string {
	raw := strings.Split(w.sb.String(), "\n")
	out := raw[:0]
	for _, line := range raw {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func hidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if a.Val == "true" {
				return true
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	if n.Data == "input" {
		for _, a := range n.Attr {
			if a.Key == "type" && a.Val == "hidden" {
				return true
			}
		}
	}
	return false
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return s[:maxSize]
	}
	return s
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
