// Package adf models the subset of the Atlassian Document Format that pwm
// reads and writes: documents of paragraphs holding text with link marks.
package adf

import (
	"encoding/json"
	"strings"
)

// Node and mark type names.
const (
	TypeDoc       = "doc"
	TypeParagraph = "paragraph"
	TypeText      = "text"
	MarkLink      = "link"
)

// Doc is a top level ADF document.
type Doc struct {
	Type    string `json:"type"`
	Version int    `json:"version"`
	Content []Node `json:"content"`
}

// Node is a block or inline node. Unknown node types decode as-is and are
// skipped by PlainText.
type Node struct {
	Type    string `json:"type"`
	Text    string `json:"text,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
	Content []Node `json:"content,omitempty"`
}

// Mark decorates a text node.
type Mark struct {
	Type  string         `json:"type"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// New builds a version 1 document from blocks.
func New(blocks ...Node) Doc {
	return Doc{Type: TypeDoc, Version: 1, Content: blocks}
}

// Paragraph builds a paragraph from inline nodes.
func Paragraph(inline ...Node) Node {
	return Node{Type: TypeParagraph, Content: inline}
}

// Text builds a plain text node.
func Text(s string) Node {
	return Node{Type: TypeText, Text: s}
}

// Link builds a text node carrying a link mark.
func Link(text, href string) Node {
	return Node{
		Type:  TypeText,
		Text:  text,
		Marks: []Mark{{Type: MarkLink, Attrs: map[string]any{"href": href}}},
	}
}

// FromText wraps a single string in a one paragraph document.
func FromText(s string) Doc {
	return New(Paragraph(Text(s)))
}

// WithLink builds the status comment shape: a text paragraph followed by a
// paragraph holding one link.
func WithLink(text, linkText, href string) Doc {
	return New(Paragraph(Text(text)), Paragraph(Link(linkText, href)))
}

// PlainText flattens the text nodes of top level paragraphs, joined by
// single spaces. Other block types are ignored.
func (d Doc) PlainText() string {
	var parts []string
	for _, block := range d.Content {
		if block.Type != TypeParagraph {
			continue
		}
		for _, inline := range block.Content {
			if inline.Type == TypeText {
				parts = append(parts, inline.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// Parse decodes a raw ADF value. It returns false for null, plain strings
// or anything that is not a doc node.
func Parse(raw json.RawMessage) (Doc, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return Doc{}, false
	}
	var d Doc
	if err := json.Unmarshal(raw, &d); err != nil || d.Type != TypeDoc {
		return Doc{}, false
	}
	return d, true
}

// PlainTextOf parses raw and flattens it, returning "" when raw is not ADF.
func PlainTextOf(raw json.RawMessage) string {
	d, ok := Parse(raw)
	if !ok {
		return ""
	}
	return d.PlainText()
}
