package bedelias

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// DecodeTree parses a saved PrimeFaces tree widget fragment into a
// RawNode. The portal renders each node as a td.ui-treenode whose
// data-nodetype attribute carries the combinator hint and whose
// sibling children-container holds the child rows.
func DecodeTree(r io.Reader) (RawNode, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return RawNode{}, err
	}
	root := doc.Find(`td.ui-treenode[data-rowkey="root"]`).First()
	if root.Length() == 0 {
		return RawNode{}, errors.New("bedelias: requirement tree root not found")
	}
	return decodeNode(root), nil
}

func decodeNode(td *goquery.Selection) RawNode {
	node := RawNode{
		KindHint: td.AttrOr("data-nodetype", ""),
		Leaf:     td.HasClass("ui-treenode-leaf"),
		Label:    labelText(td),
	}
	if node.Leaf {
		return node
	}

	// The children live in the next td, one table row per child. Walk
	// direct children only; descendant selectors would also match the
	// grandchildren's rows.
	container := td.Next()
	if !container.HasClass("ui-treenode-children-container") {
		return node
	}
	rows := container.
		ChildrenFiltered("div.ui-treenode-children").
		Children(). // table
		Children(). // tbody
		Children()  // tr
	rows.Each(func(_ int, row *goquery.Selection) {
		row.ChildrenFiltered("td.ui-treenode").Each(func(_ int, child *goquery.Selection) {
			node.Children = append(node.Children, decodeNode(child))
		})
	})
	return node
}

// labelText extracts the node's visible label, preserving the line
// breaks the widget draws with <br> tags; the leaf classifier needs
// item lines to stay separate.
func labelText(td *goquery.Selection) string {
	label := td.Find(".ui-treenode-label").First()
	if label.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range label.Nodes {
		writeText(&b, n)
	}
	return strings.TrimSpace(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// DecodeNodeJSON parses one requirement node from the extractor's JSON
// dump format, where the combinator is already spelled out as
// ALL/ANY/NONE/LEAF.
func DecodeNodeJSON(data []byte) (RawNode, error) {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return RawNode{}, err
	}
	return jn.toRaw(), nil
}

type jsonNode struct {
	Type          string     `json:"type"`
	Label         string     `json:"label"`
	Raw           string     `json:"raw"`
	Value         string     `json:"value"`
	RequiredCount int        `json:"required_count"`
	Children      []jsonNode `json:"children"`

	Rule    string     `json:"rule"`
	Items   []jsonItem `json:"items"`
	Credits int        `json:"credits"`
	Plan    string     `json:"plan"`
}

type jsonItem struct {
	Kind string `json:"kind"`
	Code string `json:"code"`
	Name string `json:"name"`
	Raw  string `json:"raw"`
}

func (jn jsonNode) toRaw() RawNode {
	label := jn.Label
	if label == "" {
		label = jn.Raw
	}
	if label == "" {
		label = jn.Value
	}
	node := RawNode{Label: label, RequiredCount: jn.RequiredCount}
	switch strings.ToUpper(strings.TrimSpace(jn.Type)) {
	case "ALL":
		node.KindHint = "y"
	case "ANY":
		node.KindHint = "o"
	case "NONE":
		node.KindHint = "no"
	default:
		// LEAF and anything unrecognized: classify from the text,
		// unless the dump already carries the structured rule.
		node.Leaf = true
		switch Rule(jn.Rule) {
		case RuleMinApprovals, RuleCreditsInPlan, RuleRawText:
			node.Rule = Rule(jn.Rule)
			node.Credits = jn.Credits
			node.Plan = jn.Plan
			for _, item := range jn.Items {
				node.Items = append(node.Items, Item(item))
			}
		}
		return node
	}
	for _, child := range jn.Children {
		node.Children = append(node.Children, child.toRaw())
	}
	return node
}
