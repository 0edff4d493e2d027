package entity

import (
	"fmt"
	"regexp"
	"strings"
)

// SearchTarget describes the button a caller wants to find. It lives for a
// single search call.
type SearchTarget struct {
	Text            string
	CaseSensitive   bool
	ExactMatch      bool
	IncludeDisabled bool
}

// Wildcard reports whether the target matches any clickable element.
func (t SearchTarget) Wildcard() bool {
	return strings.TrimSpace(t.Text) == ""
}

type LocatorKind string

const (
	LocatorNative  LocatorKind = "native"
	LocatorPseudo  LocatorKind = "pseudo"
	LocatorARIA    LocatorKind = "aria"
	LocatorAnchor  LocatorKind = "anchor"
	LocatorGeneric LocatorKind = "generic"
)

// Locator is one structural query: a CSS selector optionally narrowed by a
// text filter on the element's text content. An empty Text means no filter.
type Locator struct {
	Kind          LocatorKind
	CSS           string
	Text          string
	CaseSensitive bool
	ExactMatch    bool
}

func (l Locator) HasTextFilter() bool {
	return l.Text != ""
}

func (l Locator) pattern() string {
	p := regexp.QuoteMeta(l.Text)
	if l.ExactMatch {
		p = `^\s*` + p + `\s*$`
	}
	return p
}

// JSRegex renders the text filter as a JavaScript regex literal, e.g. /Skip/i.
func (l Locator) JSRegex() string {
	if !l.HasTextFilter() {
		return ""
	}
	flags := "i"
	if l.CaseSensitive {
		flags = ""
	}
	return "/" + strings.ReplaceAll(l.pattern(), "/", `\/`) + "/" + flags
}

// Regexp renders the text filter as a Go regexp. Nil when there is no filter.
func (l Locator) Regexp() *regexp.Regexp {
	if !l.HasTextFilter() {
		return nil
	}
	p := l.pattern()
	if !l.CaseSensitive {
		p = "(?i)" + p
	}
	return regexp.MustCompile(p)
}

func (l Locator) String() string {
	if !l.HasTextFilter() {
		return fmt.Sprintf("%s %s", l.Kind, l.CSS)
	}
	return fmt.Sprintf("%s %s %s", l.Kind, l.CSS, l.JSRegex())
}
