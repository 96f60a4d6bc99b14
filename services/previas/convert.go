package previas

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"bedelias-backend/lib/scrapers/bedelias"
)

// CreditEntry is one row of the portal's credits listing backup.
type CreditEntry struct {
	Codigo   string `json:"codigo"`
	Nombre   string `json:"nombre"`
	Creditos string `json:"creditos"`
}

// RawRequirementEntry is one entry of a raw requirement dump, keyed
// externally by "CODE - SUBJECT NAME". Name carries the offering mode
// label and Requirements the undecoded tree.
type RawRequirementEntry struct {
	Name         string          `json:"name"`
	Requirements json.RawMessage `json:"requirements"`
}

// PosPrevia is one offering that lists the owning subject as a
// prerequisite.
type PosPrevia struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
	Tipo   string `json:"tipo"`
}

// PosEntry is the inverse prerequisite listing of a single subject.
type PosEntry struct {
	Nombre     string      `json:"nombre"`
	Posprevias []PosPrevia `json:"posprevias"`
}

// VigenteEntry is one currently-offered course.
type VigenteEntry struct {
	Codigo string `json:"codigo"`
	Nombre string `json:"nombre"`
}

// NormalizedEntry is one offering's canonical requirement tree as
// written to the normalized requirements file. Code repeats the map
// key and Mode is the offering mode label ("Curso"/"Examen").
type NormalizedEntry struct {
	Code         string         `json:"code"`
	Mode         string         `json:"name"`
	Requirements *bedelias.Node `json:"requirements"`
}

// ConvertInput bundles the raw portal dumps for one program.
type ConvertInput struct {
	Credits      []CreditEntry
	Requirements map[string]RawRequirementEntry
	Posprevias   map[string]PosEntry
}

// Bundle is the normalized output of Convert: the unified subject
// listing and the canonical requirement trees, including trees
// synthesized from the posprevias listing for offerings the scrape
// never visited.
type Bundle struct {
	Subjects     []SubjectRecord            `json:"subjects"`
	Requirements map[string]NormalizedEntry `json:"requirements"`
}

// Convert normalizes a program's raw dumps into a Bundle.
func Convert(input ConvertInput) Bundle {
	creditSubjects := ConvertCredits(input.Credits)
	trees, treeSubjects := NormalizeRequirements(input.Requirements)

	synthesized := SynthesizePosprevias(input.Posprevias, trees)
	for key, entry := range synthesized {
		trees[key] = entry
	}

	posSubjects := posperviaSubjects(input.Posprevias)
	return Bundle{
		Subjects:     UnifySubjects(creditSubjects, treeSubjects, posSubjects),
		Requirements: trees,
	}
}

// ConvertCredits turns the credits listing into subject records.
func ConvertCredits(entries []CreditEntry) []SubjectRecord {
	out := make([]SubjectRecord, 0, len(entries))
	for _, e := range entries {
		code := bedelias.CanonicalCode(e.Codigo)
		if code == "" {
			continue
		}
		out = append(out, SubjectRecord{
			Code:    code,
			Name:    strings.TrimSpace(e.Nombre),
			Credits: ParseCredits(e.Creditos),
		})
	}
	return out
}

// SplitSubjectKey splits a portal listing key like
// "1030 - CALCULO 1" into its canonical code and subject name.
func SplitSubjectKey(key string) (code, name string) {
	parts := strings.SplitN(key, " - ", 2)
	code = bedelias.CanonicalCode(parts[0])
	if len(parts) == 2 {
		name = strings.TrimSpace(parts[1])
	}
	return code, name
}

// NormalizeRequirements decodes and normalizes every raw requirement
// tree. Entries whose tree fails to decode are skipped with a warning;
// entries whose tree normalizes to nothing contribute their subject
// but no tree. It also harvests subject records from the keys and from
// every approval item inside the trees.
func NormalizeRequirements(raw map[string]RawRequirementEntry) (map[string]NormalizedEntry, []SubjectRecord) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	trees := make(map[string]NormalizedEntry)
	var subjects []SubjectRecord

	for _, key := range keys {
		entry := raw[key]
		code, name := SplitSubjectKey(key)
		if code == "" {
			slog.Warn("requirement entry with unusable key", slog.String("key", key))
			continue
		}
		subjects = append(subjects, SubjectRecord{Code: code, Name: name})

		if len(entry.Requirements) == 0 || string(entry.Requirements) == "null" {
			continue
		}
		rawNode, err := bedelias.DecodeNodeJSON(entry.Requirements)
		if err != nil {
			slog.Warn("undecodable requirement tree",
				slog.String("key", key), slog.String("error", err.Error()))
			continue
		}
		node := bedelias.Normalize(rawNode)
		if node == nil {
			continue
		}

		if name == "" {
			name = code
		}
		mode := ModeLabel(OfferingTypeFromMode(entry.Name))
		newKey := fmt.Sprintf("%s - %s", code, name)
		trees[newKey] = NormalizedEntry{Code: newKey, Mode: mode, Requirements: node}
		subjects = append(subjects, treeItemSubjects(node)...)
	}
	return trees, subjects
}

func treeItemSubjects(node *bedelias.Node) []SubjectRecord {
	var out []SubjectRecord
	if node.Rule == bedelias.RuleMinApprovals {
		for _, item := range node.Items {
			if item.Code == "" {
				continue
			}
			out = append(out, SubjectRecord{Code: item.Code, Name: item.Name})
		}
	}
	for _, child := range node.Children {
		out = append(out, treeItemSubjects(child)...)
	}
	return out
}

func posperviaSubjects(pos map[string]PosEntry) []SubjectRecord {
	codes := make([]string, 0, len(pos))
	for code := range pos {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var out []SubjectRecord
	for _, rawCode := range codes {
		entry := pos[rawCode]
		if code := bedelias.CanonicalCode(rawCode); code != "" {
			out = append(out, SubjectRecord{Code: code, Name: strings.TrimSpace(entry.Nombre)})
		}
		for _, p := range entry.Posprevias {
			if code := bedelias.CanonicalCode(p.Codigo); code != "" {
				out = append(out, SubjectRecord{Code: code, Name: strings.TrimSpace(p.Nombre)})
			}
		}
	}
	return out
}

// SynthesizePosprevias reconstructs forward requirement trees from the
// inverse posprevias listing, for offerings that have no scraped tree
// of their own. Each synthesized tree is a single ANY group requiring
// one approval among the subjects that list the offering as a
// posprevia; where a real tree exists it wins and nothing is
// synthesized for that offering.
func SynthesizePosprevias(pos map[string]PosEntry, existing map[string]NormalizedEntry) map[string]NormalizedEntry {
	covered := make(map[[2]string]bool, len(existing))
	for key, entry := range existing {
		code, _ := SplitSubjectKey(key)
		covered[[2]string{code, entry.Mode}] = true
	}

	type target struct{ code, mode string }
	leaves := make(map[target]*bedelias.Node)
	names := make(map[target]string)

	prereqs := make([]string, 0, len(pos))
	for code := range pos {
		prereqs = append(prereqs, code)
	}
	sort.Strings(prereqs)

	for _, rawCode := range prereqs {
		entry := pos[rawCode]
		prereqCode := bedelias.CanonicalCode(rawCode)
		if prereqCode == "" {
			continue
		}
		prereqName := strings.TrimSpace(entry.Nombre)
		if prereqName == "" {
			prereqName = prereqCode
		}

		for _, p := range entry.Posprevias {
			code := bedelias.CanonicalCode(p.Codigo)
			if code == "" {
				continue
			}
			mode := ModeLabel(OfferingTypeFromMode(p.Tipo))
			if covered[[2]string{code, mode}] {
				continue
			}
			tgt := target{code: code, mode: mode}
			leaf, ok := leaves[tgt]
			if !ok {
				leaf = &bedelias.Node{
					Kind:          bedelias.KindLeaf,
					Rule:          bedelias.RuleMinApprovals,
					RequiredCount: 1,
				}
				leaves[tgt] = leaf
				names[tgt] = strings.TrimSpace(p.Nombre)
			}
			leaf.Items = append(leaf.Items, bedelias.Item{
				Kind: "u.c.b aprobada",
				Code: prereqCode,
				Name: prereqName,
			})
		}
	}

	targets := make([]target, 0, len(leaves))
	for tgt := range leaves {
		targets = append(targets, tgt)
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].code != targets[j].code {
			return targets[i].code < targets[j].code
		}
		return targets[i].mode < targets[j].mode
	})

	out := make(map[string]NormalizedEntry, len(targets))
	for _, tgt := range targets {
		name := names[tgt]
		if name == "" {
			name = tgt.code
		}
		key := fmt.Sprintf("%s - %s", tgt.code, name)
		// Course and exam variants of the same subject need distinct keys.
		if _, taken := out[key]; taken {
			key = fmt.Sprintf("%s::%s", key, tgt.mode)
		}
		out[key] = NormalizedEntry{
			Code: key,
			Mode: tgt.mode,
			Requirements: &bedelias.Node{
				Kind:          bedelias.KindAny,
				RequiredCount: 1,
				Children:      []*bedelias.Node{leaves[tgt]},
			},
		}
	}
	return out
}
