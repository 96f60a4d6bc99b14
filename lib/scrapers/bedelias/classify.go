package bedelias

import (
	"regexp"
	"strconv"
	"strings"

	"bedelias-backend/lib/textutil"
)

var (
	minApprovalsRegex  = regexp.MustCompile(`(?i)(\d+)\s+aprobaci[oó]n(?:/?es)?\s+entre:?`)
	creditsInPlanRegex = regexp.MustCompile(`(?i)(\d+)\s+cr[eé]ditos?\s+en\s+el\s+Plan:?\s*(.*)`)
	itemPrefixRegex    = regexp.MustCompile(`(?i)^(?:(Examen|Curso)\s+de\s+la\s+U\.C\.B|U\.C\.B\s+aprobada)\s*:\s*(.+)$`)
)

// ClassifyLeaf parses a leaf node's visible text into one of the three
// leaf rules. It never fails: text that matches no known heading comes
// back as a raw_text leaf so nothing the portal said is lost.
func ClassifyLeaf(text string) Node {
	lines := textutil.NonEmptyLines(text)
	if len(lines) == 0 {
		return Node{Kind: KindLeaf, Rule: RuleRawText, Value: "", Raw: text}
	}

	head := lines[0]
	if m := minApprovalsRegex.FindStringSubmatch(head); m != nil {
		count, _ := strconv.Atoi(m[1])
		items := make([]Item, 0, len(lines)-1)
		for _, line := range lines[1:] {
			items = append(items, ParseItemLine(line))
		}
		return Node{
			Kind:          KindLeaf,
			Label:         head,
			Rule:          RuleMinApprovals,
			RequiredCount: count,
			Items:         items,
		}
	}

	if m := creditsInPlanRegex.FindStringSubmatch(head); m != nil {
		credits, _ := strconv.Atoi(m[1])
		plan := strings.TrimSpace(m[2])
		if plan == "" && len(lines) > 1 {
			plan = strings.Join(lines[1:], " ")
		}
		return Node{
			Kind:    KindLeaf,
			Label:   head,
			Rule:    RuleCreditsInPlan,
			Credits: credits,
			Plan:    plan,
		}
	}

	value := strings.Join(lines, "\n")
	return Node{Kind: KindLeaf, Label: head, Rule: RuleRawText, Value: value}
}

// ParseItemLine parses a single item line beneath a min_approvals
// heading. Lines look like "Curso de la U.C.B: 1030 - CALCULO 1" or
// "U.C.B aprobada: CENURLN - SRN14 - ANALISIS NUMERICO"; the code and
// name split on the LAST " - " because campus-prefixed codes contain
// the separator themselves. Unparseable lines are kept verbatim in Raw.
func ParseItemLine(line string) Item {
	line = strings.TrimSpace(line)
	if m := itemPrefixRegex.FindStringSubmatch(line); m != nil {
		item := Item{Kind: NormalizeItemKind(m[1])}
		item.Code, item.Name = splitCodeName(m[2])
		return item
	}
	if strings.Contains(line, " - ") {
		item := Item{Kind: NormalizeItemKind("")}
		item.Code, item.Name = splitCodeName(line)
		return item
	}
	return Item{Raw: line}
}

func splitCodeName(payload string) (code, name string) {
	payload = strings.TrimSpace(payload)
	parts := strings.Split(payload, " - ")
	if len(parts) < 2 {
		return payload, ""
	}
	code = strings.TrimSpace(strings.Join(parts[:len(parts)-1], " - "))
	name = strings.TrimSpace(parts[len(parts)-1])
	return code, name
}
