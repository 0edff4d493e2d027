// Package locator turns a visible button label into an ordered list of
// structural queries for markup that rarely uses semantic buttons.
package locator

import (
	"strings"

	"vethub-sync/internal/domain/entity"
)

var (
	pseudoTags = []string{"div", "span"}
	// attribute suffixes that mark a div/span/a as button-like
	buttonishAttrs = []string{`[onclick]`, `[class*="button" i]`, `[class*="btn" i]`}
	anchorAttrs    = []string{`[class*="button" i]`, `[class*="btn" i]`}
	genericAttrs   = []string{`[onclick]`, `[data-action]`, `[data-click]`}
)

// Build returns the locators for target in priority order: native buttons,
// div/span pseudo-buttons, ARIA, anchors styled as buttons, then anything
// with a click data-attribute. An empty label yields the same shapes without
// text filters.
func Build(target entity.SearchTarget) []entity.Locator {
	text := strings.TrimSpace(target.Text)

	withText := func(kind entity.LocatorKind, css string) entity.Locator {
		return entity.Locator{
			Kind:          kind,
			CSS:           css,
			Text:          text,
			CaseSensitive: target.CaseSensitive,
			ExactMatch:    target.ExactMatch,
		}
	}
	byAttr := func(kind entity.LocatorKind, css string) entity.Locator {
		return entity.Locator{Kind: kind, CSS: css}
	}

	locators := []entity.Locator{
		withText(entity.LocatorNative, "button"),
		byAttr(entity.LocatorNative, `input[type="button"]`+attrMatch("value", text, target)),
		byAttr(entity.LocatorNative, `input[type="submit"]`+attrMatch("value", text, target)),
	}

	for _, tag := range pseudoTags {
		for _, attr := range buttonishAttrs {
			locators = append(locators, withText(entity.LocatorPseudo, tag+attr))
		}
	}

	locators = append(locators,
		withText(entity.LocatorARIA, `[role="button"]`),
		byAttr(entity.LocatorARIA, attrMatch("aria-label", text, target)),
	)

	for _, attr := range anchorAttrs {
		locators = append(locators, withText(entity.LocatorAnchor, "a"+attr))
	}
	for _, attr := range genericAttrs {
		locators = append(locators, withText(entity.LocatorGeneric, attr))
	}

	return locators
}

// attrMatch builds an attribute selector for text. Without text it only
// requires the attribute to be present, except for value where presence is
// not required at all.
func attrMatch(name, text string, target entity.SearchTarget) string {
	if text == "" {
		if name == "value" {
			return ""
		}
		return "[" + name + "]"
	}
	op := "*="
	if target.ExactMatch {
		op = "="
	}
	flag := " i"
	if target.CaseSensitive {
		flag = ""
	}
	return "[" + name + op + `"` + escapeCSS(text) + `"` + flag + "]"
}

func escapeCSS(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}
