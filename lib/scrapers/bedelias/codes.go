package bedelias

import (
	"regexp"
	"strings"
)

var numericCodeRegex = regexp.MustCompile(`(\d{3,5})`)

// CanonicalCode reduces a scraped course code to its canonical form:
// the first run of 3 to 5 digits when one exists, otherwise the
// whitespace-trimmed original. Portal listings decorate numeric codes
// with campus prefixes ("CENURLN - SRN14") while the requirement trees
// use the bare number, so the digit run is the stable join key.
func CanonicalCode(code string) string {
	code = strings.TrimSpace(code)
	if m := numericCodeRegex.FindStringSubmatch(code); m != nil {
		return m[1]
	}
	return code
}

// NormalizeItemKind maps the many spellings the portal uses for an
// item's kind onto the canonical three.
func NormalizeItemKind(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "curso", "course", "c":
		return "curso"
	case "examen", "exam", "e":
		return "examen"
	case "":
		return "u.c.b aprobada"
	default:
		return "u.c.b aprobada"
	}
}
