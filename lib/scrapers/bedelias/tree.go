// Package bedelias decodes and normalizes requirement trees published by the
// bedelías academic portal. The portal renders prerequisites as a PrimeFaces
// tree widget; the decoder turns saved widget markup (or a JSON dump of it)
// into RawNodes, and Normalize turns RawNodes into canonical Nodes.
package bedelias

// Kind is the canonical combinator of a requirement node.
type Kind string

const (
	KindAll  Kind = "ALL"
	KindAny  Kind = "ANY"
	KindNone Kind = "NONE"
	KindLeaf Kind = "LEAF"
)

// Rule classifies a leaf's payload.
type Rule string

const (
	RuleMinApprovals  Rule = "min_approvals"
	RuleCreditsInPlan Rule = "credits_in_plan"
	RuleRawText       Rule = "raw_text"
)

// Item is one referenced unit inside a min_approvals leaf.
type Item struct {
	// Kind is "curso", "examen" or "u.c.b aprobada".
	Kind string `json:"kind,omitempty"`
	Code string `json:"code,omitempty"`
	Name string `json:"name,omitempty"`
	// Raw holds the original line when no code could be extracted.
	Raw string `json:"raw,omitempty"`
}

// Node is a canonical, normalized requirement node. Group nodes
// (ALL/ANY/NONE) carry Children; LEAF nodes carry a Rule payload.
type Node struct {
	Kind     Kind    `json:"type"`
	Label    string  `json:"label,omitempty"`
	Children []*Node `json:"children,omitempty"`

	// RequiredCount is how many children (for ANY) or items (for
	// min_approvals) must be satisfied.
	RequiredCount int `json:"required_count,omitempty"`

	Rule    Rule   `json:"rule,omitempty"`
	Items   []Item `json:"items,omitempty"`
	Credits int    `json:"credits,omitempty"`
	Plan    string `json:"plan,omitempty"`
	Value   string `json:"value,omitempty"`
	Raw     string `json:"raw,omitempty"`
}

// RawNode is a requirement node as decoded from the portal, before
// normalization. KindHint carries the widget's node type attribute
// ("y", "o", "no"); Leaf is set when the widget marks the node as a
// leaf. Label is the node's full visible text, including any item
// lines underneath the heading.
type RawNode struct {
	KindHint      string
	Leaf          bool
	Label         string
	RequiredCount int
	Children      []RawNode

	// Structured leaf payload, present only in JSON dumps that carry
	// the already-classified rule alongside the label. When set,
	// Normalize uses it instead of re-classifying the label text.
	Rule    Rule
	Items   []Item
	Credits int
	Plan    string
}
