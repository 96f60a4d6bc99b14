package previas

import (
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/lib/textutil"

	"github.com/antzucaro/matchr"
)

var creditsValueRegex = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// ParseCredits pulls the first numeric run out of a portal credits
// string such as "OPTATIVA - 4" or "12.5". It returns nil when the
// string carries no number at all.
func ParseCredits(s string) *float64 {
	m := creditsValueRegex.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &v
}

// SubjectRecord is one subject as seen by a single source (the credits
// listing, the requirement trees, or the posprevias listing).
type SubjectRecord struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Credits *float64 `json:"credits,omitempty"`
}

// nameAgreementThreshold is the Jaro-Winkler similarity under which
// two sources naming the same code are considered to disagree.
const nameAgreementThreshold = 0.85

// UnifySubjects merges subject records from multiple sources into one
// listing keyed by canonical code. Earlier sources win: the first
// non-placeholder name and the first non-nil credits value are kept.
// A placeholder name is one that just repeats the code. Output is
// sorted with numeric codes first in numeric order, then the rest
// lexicographically.
func UnifySubjects(sources ...[]SubjectRecord) []SubjectRecord {
	merged := make(map[string]SubjectRecord)
	var order []string

	for _, source := range sources {
		for _, rec := range source {
			code := bedelias.CanonicalCode(rec.Code)
			if code == "" {
				continue
			}
			rec.Code = code

			existing, ok := merged[code]
			if !ok {
				if rec.Name == "" {
					rec.Name = code
				}
				merged[code] = rec
				order = append(order, code)
				continue
			}

			if isPlaceholderName(existing.Name, code) && !isPlaceholderName(rec.Name, code) {
				existing.Name = rec.Name
			} else if disagrees(existing.Name, rec.Name, code) {
				slog.Warn("subject name disagreement between sources",
					slog.String("code", code),
					slog.String("kept", existing.Name),
					slog.String("dropped", rec.Name))
			}
			if existing.Credits == nil {
				existing.Credits = rec.Credits
			}
			merged[code] = existing
		}
	}

	out := make([]SubjectRecord, 0, len(merged))
	for _, code := range order {
		out = append(out, merged[code])
	}
	sortSubjects(out)
	return out
}

func isPlaceholderName(name, code string) bool {
	return name == "" || strings.TrimSpace(name) == code
}

func disagrees(kept, incoming, code string) bool {
	if isPlaceholderName(kept, code) || isPlaceholderName(incoming, code) {
		return false
	}
	a := textutil.NormalizeName(kept)
	b := textutil.NormalizeName(incoming)
	if a == b {
		return false
	}
	return matchr.JaroWinkler(a, b, false) < nameAgreementThreshold
}

func sortSubjects(subjects []SubjectRecord) {
	sort.SliceStable(subjects, func(i, j int) bool {
		ni, errI := strconv.Atoi(subjects[i].Code)
		nj, errJ := strconv.Atoi(subjects[j].Code)
		switch {
		case errI == nil && errJ == nil:
			return ni < nj
		case errI == nil:
			return true
		case errJ == nil:
			return false
		default:
			return subjects[i].Code < subjects[j].Code
		}
	})
}
