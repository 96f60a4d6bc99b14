package bedelias

import (
	"strings"

	"bedelias-backend/lib/textutil"
)

// HintKind maps a widget node type hint onto a canonical group kind.
// Unknown hints default to ALL, the portal's implicit combinator.
func HintKind(hint string) Kind {
	switch strings.ToLower(strings.TrimSpace(hint)) {
	case "y":
		return KindAll
	case "o":
		return KindAny
	case "no":
		return KindNone
	default:
		return KindAll
	}
}

// Normalize converts a raw decoded node into its canonical form.
// It returns nil when the node normalizes to nothing: an ALL group
// whose children all elided is itself elided, and the elision
// propagates upward so vacuous scaffolding never reaches storage.
func Normalize(raw RawNode) *Node {
	if raw.Leaf {
		node := classifyRawLeaf(raw)
		normalizeLeaf(&node)
		return &node
	}

	kind := HintKind(raw.KindHint)
	var children []*Node
	for _, child := range raw.Children {
		if n := Normalize(child); n != nil {
			children = append(children, n)
		}
	}
	if kind == KindAll && len(children) == 0 {
		return nil
	}

	node := &Node{
		Kind:     kind,
		Label:    textutil.CollapseWhitespace(raw.Label),
		Children: children,
	}
	if kind == KindAny {
		node.RequiredCount = raw.RequiredCount
		if node.RequiredCount < 1 {
			node.RequiredCount = 1
		}
	}
	return node
}

// classifyRawLeaf builds the canonical leaf. A structured rule from a
// JSON dump wins over the label text: dumps can carry a cleaned label
// alongside intact items, and re-deriving from the label would drop
// them.
func classifyRawLeaf(raw RawNode) Node {
	if raw.Rule == "" {
		return ClassifyLeaf(raw.Label)
	}
	node := Node{
		Kind:    KindLeaf,
		Label:   textutil.CollapseWhitespace(raw.Label),
		Rule:    raw.Rule,
		Items:   raw.Items,
		Credits: raw.Credits,
		Plan:    raw.Plan,
	}
	switch raw.Rule {
	case RuleMinApprovals:
		node.RequiredCount = raw.RequiredCount
		if node.RequiredCount < 1 {
			node.RequiredCount = 1
		}
	case RuleRawText:
		node.Value = raw.Label
	}
	return node
}

// normalizeLeaf canonicalizes item codes and de-duplicates items that
// resolve to the same (kind, code). Duplicates keep their first
// position but the last occurrence's name wins, since later portal
// rows tend to carry the fuller title. Items without a code are kept
// as-is after the de-duplicated ones.
func normalizeLeaf(node *Node) {
	if node.Rule != RuleMinApprovals || len(node.Items) == 0 {
		return
	}

	type itemKey struct{ kind, code string }
	index := make(map[itemKey]int)
	deduped := make([]Item, 0, len(node.Items))
	var codeless []Item

	for _, item := range node.Items {
		if item.Code == "" {
			codeless = append(codeless, item)
			continue
		}
		item.Code = CanonicalCode(item.Code)
		if item.Name == "" {
			item.Name = item.Code
		}
		key := itemKey{kind: item.Kind, code: item.Code}
		if at, ok := index[key]; ok {
			deduped[at] = item
			continue
		}
		index[key] = len(deduped)
		deduped = append(deduped, item)
	}

	node.Items = append(deduped, codeless...)
}
