// CLAUDE:SUMMARY Walks the parsed HTML document and rewrites every asset-bearing attribute to a localized path.
// Package htmlproc rewrites a parsed HTML document so every asset-bearing
// attribute points at a localized file.
//
// The rule set is a fixed table of (element, attribute, category): external
// stylesheets and icons on <link>, <script src>, <img src>/srcset,
// <source srcset>, OpenGraph/Twitter image metas, inline style attributes,
// and <style> blocks, which are consolidated into one synthetic stylesheet.
// Everything the table does not name is preserved as parsed.
package htmlproc

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/hazyhaar/pagerip/internal/assets"
	"github.com/hazyhaar/pagerip/internal/cssproc"
	"github.com/hazyhaar/pagerip/internal/urlres"
)

// inlineSheetName is the contract filename for consolidated <style> blocks.
const inlineSheetName = "inline_styles.css"

// iconRels are <link rel> values treated as image assets.
var iconRels = map[string]bool{
	"icon":             true,
	"apple-touch-icon": true,
	"mask-icon":        true,
	// "shortcut icon" arrives as the two fields "shortcut" and "icon".
}

var metaImageProps = map[string]bool{"og:image": true, "og:image:url": true}
var metaImageNames = map[string]bool{"twitter:image": true, "twitter:image:src": true}

// Processor rewrites HTML documents against an asset store.
type Processor struct {
	store  *assets.Store
	css    *cssproc.Processor
	logger *slog.Logger
}

// New creates a Processor.
func New(store *assets.Store, css *cssproc.Processor, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{store: store, css: css, logger: logger}
}

// Rewrite parses htmlText, localizes every asset the rule table names, and
// serializes the document back to text. Per-asset failures leave the
// original attribute value in place; only a parse failure is an error.
func (p *Processor) Rewrite(ctx context.Context, htmlText, pageURL string) (string, error) {
	doc, err := html.Parse(strings.NewReader(htmlText))
	if err != nil {
		return "", fmt.Errorf("htmlproc: parse: %w", err)
	}

	// The synthetic stylesheet name must survive collision numbering.
	p.store.ClaimName(assets.Stylesheet, inlineSheetName)

	var inlineCSS []string
	var styleTags []*html.Node

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if style := getAttr(n, "style"); strings.TrimSpace(style) != "" {
				setAttr(n, "style", p.css.RewriteInline(ctx, style, pageURL))
			}

			switch n.DataAtom {
			case atom.Link:
				p.handleLink(ctx, n, pageURL)
			case atom.Script:
				p.rewriteAttr(ctx, n, "src", pageURL, assets.Script)
			case atom.Img:
				p.rewriteAttr(ctx, n, "src", pageURL, assets.Image)
				p.rewriteSrcset(ctx, n, pageURL)
			case atom.Source:
				p.rewriteSrcset(ctx, n, pageURL)
			case atom.Meta:
				p.handleMeta(ctx, n, pageURL)
			case atom.Style:
				if text := nodeText(n); strings.TrimSpace(text) != "" {
					inlineCSS = append(inlineCSS, text)
				}
				styleTags = append(styleTags, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Consolidate <style> blocks after the walk, once every stylesheet and
	// image download above has completed.
	if len(inlineCSS) > 0 {
		// The consolidated sheet lives in css/, so its references walk the
		// same ../img/ path as any downloaded stylesheet.
		body := p.css.Rewrite(ctx, strings.Join(inlineCSS, "\n\n"), pageURL)
		rel, err := p.store.WriteFixed(assets.Stylesheet, inlineSheetName, []byte(body))
		if err != nil {
			p.logger.Warn("htmlproc: inline stylesheet skipped", "error", err)
		} else {
			removeNodes(styleTags)
			appendStylesheetLink(doc, rel)
		}
	} else {
		removeNodes(styleTags) // only empty blocks, nothing to replace them with
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", fmt.Errorf("htmlproc: render: %w", err)
	}
	return buf.String(), nil
}

// handleLink dispatches <link> elements by rel: stylesheets through the CSS
// processor, icon variants as plain images.
func (p *Processor) handleLink(ctx context.Context, n *html.Node, pageURL string) {
	rels := strings.Fields(strings.ToLower(getAttr(n, "rel")))
	href := getAttr(n, "href")
	if href == "" || len(rels) == 0 {
		return
	}

	for _, rel := range rels {
		if rel == "stylesheet" {
			abs, err := urlres.Resolve(href, pageURL)
			if err != nil {
				return
			}
			local, err := p.css.ProcessExternal(ctx, abs)
			if err != nil {
				return
			}
			setAttr(n, "href", local)
			return
		}
		if iconRels[rel] {
			p.rewriteAttr(ctx, n, "href", pageURL, assets.Image)
			return
		}
	}
}

// handleMeta rewrites OpenGraph and Twitter image card content.
func (p *Processor) handleMeta(ctx context.Context, n *html.Node, pageURL string) {
	prop := strings.ToLower(getAttr(n, "property"))
	name := strings.ToLower(getAttr(n, "name"))
	if metaImageProps[prop] || metaImageNames[name] {
		p.rewriteAttr(ctx, n, "content", pageURL, assets.Image)
	}
}

// rewriteAttr localizes one attribute value. Unsupported references and
// failed downloads leave the attribute untouched so the page degrades to an
// online fetch for that asset.
func (p *Processor) rewriteAttr(ctx context.Context, n *html.Node, attr, pageURL string, cat assets.Category) {
	val := getAttr(n, attr)
	if val == "" {
		return
	}
	abs, err := urlres.Resolve(val, pageURL)
	if err != nil {
		return
	}
	local, err := p.store.Localize(ctx, abs, cat)
	if err != nil {
		return
	}
	setAttr(n, attr, local)
}

// rewriteSrcset localizes each candidate URL of a srcset independently,
// keeping descriptors and unlocalizable entries verbatim.
func (p *Processor) rewriteSrcset(ctx context.Context, n *html.Node, pageURL string) {
	raw := getAttr(n, "srcset")
	if strings.TrimSpace(raw) == "" {
		return
	}
	entries := parseSrcset(raw)
	changed := false
	for i := range entries {
		abs, err := urlres.Resolve(entries[i].URL, pageURL)
		if err != nil {
			continue
		}
		local, err := p.store.Localize(ctx, abs, assets.Image)
		if err != nil {
			continue
		}
		entries[i].URL = local
		changed = true
	}
	if changed {
		setAttr(n, "srcset", formatSrcset(entries))
	}
}

// appendStylesheetLink inserts <link rel="stylesheet" href=...> into <head>,
// creating the head if the parser did not synthesize one.
func appendStylesheetLink(doc *html.Node, href string) {
	link := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Link,
		Data:     "link",
		Attr: []html.Attribute{
			{Key: "rel", Val: "stylesheet"},
			{Key: "href", Val: href},
		},
	}

	head := findFirst(doc, atom.Head)
	if head == nil {
		head = &html.Node{Type: html.ElementNode, DataAtom: atom.Head, Data: "head"}
		if root := findFirst(doc, atom.Html); root != nil {
			root.InsertBefore(head, root.FirstChild)
		} else {
			doc.AppendChild(head)
		}
	}
	head.AppendChild(link)
}

func removeNodes(nodes []*html.Node) {
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}

// findFirst returns the first element with the given tag, depth-first.
func findFirst(n *html.Node, tag atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// nodeText concatenates a node's direct text children.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// getAttr returns the value of an attribute on a node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// setAttr updates an attribute in place, appending it if absent.
func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
