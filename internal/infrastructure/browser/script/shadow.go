// Package script holds in-page JavaScript shared by the browser drivers.
package script

import "vethub-sync/internal/domain/entity"

// ClickableCSS marks an element as clickable in the shadow walk: a button or
// input tag, role=button, a click attribute, or a button/btn class name.
const ClickableCSS = `button, input, [role="button"], [onclick], [data-action], [data-click], ` +
	`[class*="button" i], [class*="btn" i]`

// ClickableInputTypes are the input types a wildcard search may activate.
// Other inputs take text and are never picked without a label to match.
var ClickableInputTypes = []string{"button", "submit", "reset", "image"}

// ShadowWalk visits the document and every open shadow root in document
// order and reports whether a visible, clickable element with matching text
// exists. With click set it also clicks the first one.
const ShadowWalk = `({text, caseSensitive, exact, includeDisabled, click}) => {
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const want = caseSensitive ? norm(text) : norm(text).toLowerCase();
	const wildcard = want === '';
	const labelOf = (el) => norm(el.innerText || el.textContent || el.value || el.getAttribute('aria-label'));
	const matches = (el) => {
		let label = labelOf(el);
		if (!caseSensitive) label = label.toLowerCase();
		return exact ? label === want : label.includes(want);
	};
	const clickable = (el) => el.matches('` + ClickableCSS + `');
	const textEntry = (el) => el.tagName === 'INPUT' &&
		!['button', 'submit', 'reset', 'image'].includes((el.getAttribute('type') || 'text').toLowerCase());
	const visible = (el) => {
		const r = el.getBoundingClientRect();
		const s = getComputedStyle(el);
		return r.width > 0 && r.height > 0 && s.visibility !== 'hidden' && s.display !== 'none';
	};
	const enabled = (el) => includeDisabled || !(el.disabled === true || el.getAttribute('aria-disabled') === 'true');
	const walk = (root) => {
		for (const el of root.querySelectorAll('*')) {
			if (clickable(el) && !(wildcard && textEntry(el)) && visible(el) && enabled(el) && matches(el)) return el;
			if (el.shadowRoot) {
				const found = walk(el.shadowRoot);
				if (found) return found;
			}
		}
		return null;
	};
	const found = walk(document);
	if (!found) return false;
	if (click) found.click();
	return true;
}`

// ShadowWalkArgs is the single argument ShadowWalk expects.
func ShadowWalkArgs(t entity.SearchTarget, click bool) map[string]any {
	return map[string]any{
		"text":            t.Text,
		"caseSensitive":   t.CaseSensitive,
		"exact":           t.ExactMatch,
		"includeDisabled": t.IncludeDisabled,
		"click":           click,
	}
}

// IsDisabled is evaluated with the element as this (rod) or first argument
// (playwright).
const IsDisabled = `function (el) {
	el = el || this;
	return el.disabled === true || el.getAttribute('aria-disabled') === 'true';
}`

// Attribute returns null for a missing attribute, unlike most driver APIs.
const Attribute = `(el, name) => el.getAttribute(name)`
