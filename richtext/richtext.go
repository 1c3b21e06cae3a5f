// Package richtext converts Prismic structured text into plain text and HTML.
package richtext

import (
	"bytes"
	"sort"
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Block types
const (
	TypeParagraph    = "paragraph"
	TypePreformatted = "preformatted"
	TypeListItem     = "list-item"
	TypeOListItem    = "o-list-item"
	TypeImage        = "image"
	TypeEmbed        = "embed"
)

// Span types
const (
	SpanStrong    = "strong"
	SpanEm        = "em"
	SpanHyperlink = "hyperlink"
	SpanLabel     = "label"
)

// Block is one element of a structured text field.
type Block struct {
	Type   string  `json:"type"`
	Text   string  `json:"text,omitempty"`
	Spans  []Span  `json:"spans,omitempty"`
	URL    string  `json:"url,omitempty"`
	Alt    string  `json:"alt,omitempty"`
	Oembed *Oembed `json:"oembed,omitempty"`
}

// Span marks a range of a block's text. Start and End are UTF-16 offsets,
// as produced by the CMS.
type Span struct {
	Start int       `json:"start"`
	End   int       `json:"end"`
	Type  string    `json:"type"`
	Data  *SpanData `json:"data,omitempty"`
}

type SpanData struct {
	LinkType string `json:"link_type,omitempty"`
	URL      string `json:"url,omitempty"`
	Target   string `json:"target,omitempty"`
	Label    string `json:"label,omitempty"`
}

type Oembed struct {
	Type         string `json:"type,omitempty"`
	ProviderName string `json:"provider_name,omitempty"`
	EmbedURL     string `json:"embed_url,omitempty"`
	HTML         string `json:"html,omitempty"`
}

// HasText reports whether the block carries text (images and embeds don't).
func (b Block) HasText() bool {
	return b.Type != TypeImage && b.Type != TypeEmbed
}

// AsText joins the text of every text block with a single space.
func AsText(blocks []Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if !b.HasText() {
			continue
		}
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, " ")
}

// AsHTML renders the blocks as an HTML fragment. Text and attribute values are escaped.
func AsHTML(blocks []Block) (string, error) {
	var buf bytes.Buffer
	for _, n := range Nodes(blocks) {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// Nodes builds the render tree for the blocks. Consecutive list items share one <ul> or <ol>.
func Nodes(blocks []Block) []*html.Node {
	var (
		out  []*html.Node
		list *html.Node
	)
	for _, b := range blocks {
		switch b.Type {
		case TypeListItem, TypeOListItem:
			tag := "ul"
			if b.Type == TypeOListItem {
				tag = "ol"
			}
			if list == nil || list.Data != tag {
				list = element(tag)
				out = append(out, list)
			}
			li := element("li")
			appendInline(li, b.Text, b.Spans)
			list.AppendChild(li)
			continue
		}
		list = nil
		if n := blockNode(b); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func blockNode(b Block) *html.Node {
	switch {
	case b.Type == TypeImage:
		p := element("p", html.Attribute{Key: "class", Val: "block-img"})
		p.AppendChild(element("img",
			html.Attribute{Key: "src", Val: b.URL},
			html.Attribute{Key: "alt", Val: b.Alt},
		))
		return p
	case b.Type == TypeEmbed:
		if b.Oembed == nil {
			return nil
		}
		div := element("div",
			html.Attribute{Key: "data-oembed", Val: b.Oembed.EmbedURL},
			html.Attribute{Key: "data-oembed-type", Val: b.Oembed.Type},
			html.Attribute{Key: "data-oembed-provider", Val: b.Oembed.ProviderName},
		)
		if b.Oembed.HTML != "" {
			frags, err := html.ParseFragment(strings.NewReader(b.Oembed.HTML), div)
			if err == nil {
				for _, f := range frags {
					div.AppendChild(f)
				}
			}
		}
		return div
	case b.Type == TypePreformatted:
		pre := element("pre")
		appendInline(pre, b.Text, b.Spans)
		return pre
	case strings.HasPrefix(b.Type, "heading") && len(b.Type) == len("heading")+1:
		level := b.Type[len(b.Type)-1]
		if level < '1' || level > '6' {
			break
		}
		h := element("h" + string(level))
		appendInline(h, b.Text, b.Spans)
		return h
	}
	p := element("p")
	appendInline(p, b.Text, b.Spans)
	return p
}

func appendInline(parent *html.Node, text string, spans []Span) {
	units := utf16.Encode([]rune(text))
	clean := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start < 0 {
			s.Start = 0
		}
		if s.End > len(units) {
			s.End = len(units)
		}
		if s.Start >= s.End {
			continue
		}
		clean = append(clean, s)
	}
	sort.SliceStable(clean, func(i, j int) bool {
		if clean[i].Start != clean[j].Start {
			return clean[i].Start < clean[j].Start
		}
		return clean[i].End > clean[j].End
	})
	buildSpans(parent, units, 0, len(units), clean)
}

// buildSpans nests spans inside [start,end). A span that overlaps the end of an
// earlier one is clipped to it, so the tree stays well formed.
func buildSpans(parent *html.Node, units []uint16, start, end int, spans []Span) {
	pos := start
	for i := 0; i < len(spans); {
		s := spans[i]
		if s.Start < pos {
			s.Start = pos
		}
		if s.End > end {
			s.End = end
		}
		if s.Start >= s.End {
			i++
			continue
		}
		appendText(parent, units[pos:s.Start])

		j := i + 1
		var children []Span
		for ; j < len(spans) && spans[j].Start < s.End; j++ {
			c := spans[j]
			if c.End > s.End {
				c.End = s.End
			}
			children = append(children, c)
		}

		el := spanElement(s)
		parent.AppendChild(el)
		buildSpans(el, units, s.Start, s.End, children)

		pos = s.End
		i = j
	}
	appendText(parent, units[pos:end])
}

func spanElement(s Span) *html.Node {
	switch s.Type {
	case SpanStrong:
		return element("strong")
	case SpanEm:
		return element("em")
	case SpanHyperlink:
		var attrs []html.Attribute
		if s.Data != nil {
			attrs = append(attrs, html.Attribute{Key: "href", Val: s.Data.URL})
			if s.Data.Target != "" {
				attrs = append(attrs,
					html.Attribute{Key: "target", Val: s.Data.Target},
					html.Attribute{Key: "rel", Val: "noopener noreferrer"},
				)
			}
		}
		return element("a", attrs...)
	case SpanLabel:
		label := ""
		if s.Data != nil {
			label = s.Data.Label
		}
		return element("span", html.Attribute{Key: "class", Val: label})
	default:
		return element("span")
	}
}

// appendText adds the text, turning line breaks into <br>.
func appendText(parent *html.Node, units []uint16) {
	if len(units) == 0 {
		return
	}
	lines := strings.Split(string(utf16.Decode(units)), "\n")
	for i, line := range lines {
		if i > 0 {
			parent.AppendChild(element("br"))
		}
		if line != "" {
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}
