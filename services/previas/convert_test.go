package previas

import (
	"encoding/json"
	"testing"

	"bedelias-backend/lib/scrapers/bedelias"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRequirements(t *testing.T) {
	raw := map[string]RawRequirementEntry{
		"1030 - CALCULO 1": {
			Name: "Curso",
			Requirements: json.RawMessage(`{
				"type": "ALL",
				"children": [
					{"type": "LEAF", "label": "1 aprobación entre:\nCurso de la U.C.B: 1020 - GAL 1"}
				]
			}`),
		},
		"9999 - VACIA": {
			Name:         "Curso",
			Requirements: json.RawMessage(`{"type": "ALL", "children": []}`),
		},
	}

	trees, subjects := NormalizeRequirements(raw)

	entry, ok := trees["1030 - CALCULO 1"]
	require.True(t, ok)
	require.Equal(t, "Curso", entry.Mode)
	require.Equal(t, bedelias.KindAll, entry.Requirements.Kind)
	require.Len(t, entry.Requirements.Children, 1)

	// The empty tree elides; its subject is still harvested.
	_, ok = trees["9999 - VACIA"]
	require.False(t, ok)

	codes := make(map[string]bool)
	for _, rec := range subjects {
		codes[rec.Code] = true
	}
	require.True(t, codes["1030"])
	require.True(t, codes["1020"])
	require.True(t, codes["9999"])
}

func TestSynthesizePosprevias(t *testing.T) {
	pos := map[string]PosEntry{
		"1020": {
			Nombre: "GAL 1",
			Posprevias: []PosPrevia{
				{Codigo: "1030", Nombre: "CALCULO 1", Tipo: "curso"},
				{Codigo: "1030", Nombre: "CALCULO 1", Tipo: "examen"},
			},
		},
	}

	out := SynthesizePosprevias(pos, nil)
	require.Len(t, out, 2)

	course, ok := out["1030 - CALCULO 1"]
	require.True(t, ok)
	require.Equal(t, "Curso", course.Mode)
	require.Equal(t, bedelias.KindAny, course.Requirements.Kind)
	require.Equal(t, 1, course.Requirements.RequiredCount)
	require.Len(t, course.Requirements.Children, 1)
	leaf := course.Requirements.Children[0]
	require.Equal(t, bedelias.RuleMinApprovals, leaf.Rule)
	require.Len(t, leaf.Items, 1)
	require.Equal(t, "1020", leaf.Items[0].Code)

	exam, ok := out["1030 - CALCULO 1::Examen"]
	require.True(t, ok)
	require.Equal(t, "Examen", exam.Mode)
}

func TestSynthesizePospreviasSkipsCoveredOfferings(t *testing.T) {
	existing := map[string]NormalizedEntry{
		"1030 - CALCULO 1": {Code: "1030 - CALCULO 1", Mode: "Curso"},
	}
	pos := map[string]PosEntry{
		"1020": {
			Nombre:     "GAL 1",
			Posprevias: []PosPrevia{{Codigo: "1030", Nombre: "CALCULO 1", Tipo: "curso"}},
		},
	}

	out := SynthesizePosprevias(pos, existing)
	require.Empty(t, out)
}

func TestConvertBundle(t *testing.T) {
	bundle := Convert(ConvertInput{
		Credits: []CreditEntry{
			{Codigo: "1020", Nombre: "GAL 1", Creditos: "OPTATIVA - 10"},
		},
		Requirements: map[string]RawRequirementEntry{
			"1030 - CALCULO 1": {
				Name: "Curso",
				Requirements: json.RawMessage(`{
					"type": "ANY",
					"required_count": 1,
					"children": [
						{"type": "LEAF", "label": "1 aprobación entre:\nCurso de la U.C.B: 1020 - GAL 1"}
					]
				}`),
			},
		},
		Posprevias: map[string]PosEntry{
			"1030": {
				Nombre:     "CALCULO 1",
				Posprevias: []PosPrevia{{Codigo: "1440", Nombre: "FISICA 1", Tipo: "curso"}},
			},
		},
	})

	require.Len(t, bundle.Subjects, 3)
	require.Equal(t, "1020", bundle.Subjects[0].Code)
	require.NotNil(t, bundle.Subjects[0].Credits)
	require.Equal(t, 10.0, *bundle.Subjects[0].Credits)

	require.Contains(t, bundle.Requirements, "1030 - CALCULO 1")
	require.Contains(t, bundle.Requirements, "1440 - FISICA 1")
}
