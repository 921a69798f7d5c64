// Package xml wraps xmlquery for reading and building XML documents.
//
// Parsing goes through encoding/xml, which never fetches external entities.
// Selectors are pre-compiled xpath expressions; documents are built as
// xmlquery node trees and serialized with indentation.
package xml

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/seqconvert/core/encoding"
)

// Document is a parsed or built XML document.
type Document struct {
	root *xmlquery.Node
}

// Node is an element of a Document.
type Node struct {
	node *xmlquery.Node
}

// Attr is one attribute given to Element. Name may carry a prefix
// ("xsi:type", "xmlns:nex").
type Attr struct {
	Name  string
	Value string
}

// FormatOptions controls XML formatting behavior.
type FormatOptions struct {
	Indent string // Indentation string (e.g., "  " or "\t")
}

// MustCompile compiles an xpath expression, panicking on error.
func MustCompile(expr string) *xpath.Expr {
	return xpath.MustCompile(expr)
}

// Parse reads a document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{root: root}, nil
}

// NewDocument returns an empty document with an XML declaration.
func NewDocument() *Document {
	doc := &xmlquery.Node{Type: xmlquery.DocumentNode}
	decl := &xmlquery.Node{Type: xmlquery.DeclarationNode, Data: "xml"}
	xmlquery.AddAttr(decl, "version", "1.0")
	xmlquery.AddAttr(decl, "encoding", "UTF-8")
	xmlquery.AddChild(doc, decl)
	return &Document{root: doc}
}

// Root returns the root element of the document.
func (d *Document) Root() *Node {
	if d.root == nil {
		return nil
	}
	for child := d.root.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == xmlquery.ElementNode {
			return &Node{node: child}
		}
	}
	return nil
}

// Select returns the nodes matching a compiled expression.
func (d *Document) Select(expr *xpath.Expr) []*Node {
	return wrap(xmlquery.QuerySelectorAll(d.root, expr))
}

// Element appends a new element to the document itself, making it the
// root element.
func (d *Document) Element(name string, attrs ...Attr) *Node {
	return element(d.root, name, attrs)
}

// Element appends a child element to n.
func (n *Node) Element(name string, attrs ...Attr) *Node {
	return element(n.node, name, attrs)
}

func element(parent *xmlquery.Node, name string, attrs []Attr) *Node {
	el := &xmlquery.Node{Type: xmlquery.ElementNode, Data: name}
	if i := strings.IndexByte(name, ':'); i > 0 {
		el.Prefix, el.Data = name[:i], name[i+1:]
	}
	for _, a := range attrs {
		xmlquery.AddAttr(el, a.Name, a.Value)
	}
	xmlquery.AddChild(parent, el)
	return &Node{node: el}
}

// SetText replaces the children of n with a text node.
func (n *Node) SetText(text string) {
	n.node.FirstChild, n.node.LastChild = nil, nil
	xmlquery.AddChild(n.node, &xmlquery.Node{Type: xmlquery.TextNode, Data: text})
}

// Select returns the nodes below n matching a compiled expression.
func (n *Node) Select(expr *xpath.Expr) []*Node {
	return wrap(xmlquery.QuerySelectorAll(n.node, expr))
}

// SelectFirst returns the first node below n matching expr, or nil.
func (n *Node) SelectFirst(expr *xpath.Expr) *Node {
	found := xmlquery.QuerySelector(n.node, expr)
	if found == nil {
		return nil
	}
	return &Node{node: found}
}

func wrap(nodes []*xmlquery.Node) []*Node {
	result := make([]*Node, len(nodes))
	for i, n := range nodes {
		result[i] = &Node{node: n}
	}
	return result
}

// Name returns the element name.
func (n *Node) Name() string {
	if n.node == nil {
		return ""
	}
	return n.node.Data
}

// Text returns all text content of the node and its descendants.
func (n *Node) Text() string {
	if n.node == nil {
		return ""
	}
	return n.node.InnerText()
}

// Attr returns the value of a specific attribute.
func (n *Node) Attr(name string) string {
	if n.node == nil {
		return ""
	}
	return n.node.SelectAttr(name)
}

// Write serializes the document to w.
func (d *Document) Write(w io.Writer, opts FormatOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	bw := bufio.NewWriter(w)
	formatNode(bw, d.root, 0, opts.Indent)
	return bw.Flush()
}

func writeName(w *bufio.Writer, prefix, local string) {
	if prefix != "" {
		w.WriteString(prefix)
		w.WriteString(":")
	}
	w.WriteString(local)
}

func writeAttrs(w *bufio.Writer, attrs []xmlquery.Attr) {
	for _, attr := range attrs {
		w.WriteString(" ")
		writeName(w, attr.Name.Space, attr.Name.Local)
		w.WriteString("=\"")
		w.WriteString(encoding.EscapeXMLAttr(attr.Value))
		w.WriteString("\"")
	}
}

// formatNode recursively formats an XML node.
func formatNode(w *bufio.Writer, n *xmlquery.Node, depth int, indent string) {
	switch n.Type {
	case xmlquery.DocumentNode:
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			formatNode(w, child, depth, indent)
		}

	case xmlquery.DeclarationNode:
		w.WriteString("<?xml")
		writeAttrs(w, n.Attr)
		w.WriteString("?>\n")

	case xmlquery.ElementNode:
		writeIndent(w, depth, indent)
		w.WriteString("<")
		writeName(w, n.Prefix, n.Data)
		writeAttrs(w, n.Attr)

		if n.FirstChild == nil {
			w.WriteString("/>\n")
			return
		}

		hasElementChildren := false
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == xmlquery.ElementNode {
				hasElementChildren = true
				break
			}
		}

		w.WriteString(">")
		if hasElementChildren {
			w.WriteString("\n")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			switch child.Type {
			case xmlquery.ElementNode:
				formatNode(w, child, depth+1, indent)
			case xmlquery.TextNode:
				text := strings.TrimSpace(child.Data)
				if text == "" {
					continue
				}
				if hasElementChildren {
					writeIndent(w, depth+1, indent)
				}
				w.WriteString(encoding.EscapeXMLText(text))
				if hasElementChildren {
					w.WriteString("\n")
				}
			case xmlquery.CharDataNode:
				w.WriteString("<![CDATA[")
				w.WriteString(child.Data)
				w.WriteString("]]>")
			}
		}
		if hasElementChildren {
			writeIndent(w, depth, indent)
		}
		w.WriteString("</")
		writeName(w, n.Prefix, n.Data)
		w.WriteString(">\n")

	case xmlquery.CommentNode:
		writeIndent(w, depth, indent)
		w.WriteString("<!--")
		w.WriteString(n.Data)
		w.WriteString("-->\n")
	}
}

func writeIndent(w *bufio.Writer, depth int, indent string) {
	for i := 0; i < depth; i++ {
		w.WriteString(indent)
	}
}
