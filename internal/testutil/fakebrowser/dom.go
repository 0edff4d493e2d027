package fakebrowser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"vethub-sync/internal/infrastructure/browser/script"
)

// indexAttr maps a node of the rendered tree back to its Element.
const indexAttr = "data-fake-index"

var clickableSel = cascadia.MustCompile(script.ClickableCSS)

// node renders the element as a detached x/net/html element carrying its
// attributes and label.
func (e *Element) node(index int) *html.Node {
	tag := strings.ToLower(e.Tag)
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: e.Attrs[k]})
	}
	if index >= 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: indexAttr, Val: strconv.Itoa(index)})
	}
	if e.Label != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Label})
	}
	return n
}

// document renders the surface as <html><body>elements...</body></html>.
func (s *Surface) document() *goquery.Document {
	root := &html.Node{Type: html.DocumentNode}
	htmlNode := &html.Node{Type: html.ElementNode, Data: "html", DataAtom: atom.Html}
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	root.AppendChild(htmlNode)
	htmlNode.AppendChild(body)
	for i, el := range s.Elements {
		body.AppendChild(el.node(i))
	}
	return goquery.NewDocumentFromNode(root)
}

// query returns the surface elements matching css in document order.
func (s *Surface) query(css string) ([]*Element, error) {
	sel, err := cascadia.Compile(css)
	if err != nil {
		return nil, err
	}

	var out []*Element
	s.document().FindMatcher(sel).Each(func(_ int, q *goquery.Selection) {
		idx, ok := q.Attr(indexAttr)
		if !ok {
			return
		}
		if i, err := strconv.Atoi(idx); err == nil {
			out = append(out, s.Elements[i])
		}
	})
	return out, nil
}

func clickable(el *Element) bool {
	return clickableSel.Match(el.node(-1))
}

// textEntry mirrors the shadow walk: inputs other than button-like types are
// skipped by wildcard searches.
func textEntry(el *Element) bool {
	if !strings.EqualFold(el.Tag, "input") {
		return false
	}
	typ, ok := el.attr("type")
	if !ok || typ == "" {
		typ = "text"
	}
	for _, t := range script.ClickableInputTypes {
		if strings.EqualFold(typ, t) {
			return false
		}
	}
	return true
}
