package bedelias

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalizeElisionPropagates(t *testing.T) {
	// An ALL chain with nothing at the bottom collapses entirely.
	raw := RawNode{
		KindHint: "y",
		Children: []RawNode{
			{KindHint: "y", Children: []RawNode{
				{KindHint: "y"},
			}},
		},
	}
	require.Nil(t, Normalize(raw))
}

func TestNormalizeKeepsSurvivingBranch(t *testing.T) {
	raw := RawNode{
		KindHint: "y",
		Children: []RawNode{
			{KindHint: "y"}, // elides
			{Leaf: true, Label: "1 aprobación entre:\nCurso de la U.C.B: 1030 - CALCULO 1"},
		},
	}
	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, KindAll, node.Kind)
	require.Len(t, node.Children, 1)
	require.Equal(t, RuleMinApprovals, node.Children[0].Rule)
}

func TestNormalizeAnyDefaultsRequiredCount(t *testing.T) {
	raw := RawNode{
		KindHint: "o",
		Children: []RawNode{
			{Leaf: true, Label: "previa A"},
			{Leaf: true, Label: "previa B"},
		},
	}
	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, KindAny, node.Kind)
	require.Equal(t, 1, node.RequiredCount)
}

func TestNormalizeAnyPreservesRequiredCount(t *testing.T) {
	raw := RawNode{
		KindHint:      "o",
		RequiredCount: 3,
		Children:      []RawNode{{Leaf: true, Label: "previa"}},
	}
	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, 3, node.RequiredCount)
}

func TestNormalizeNoneKeptWithoutChildren(t *testing.T) {
	node := Normalize(RawNode{KindHint: "no"})
	require.NotNil(t, node)
	require.Equal(t, KindNone, node.Kind)
}

func TestNormalizeUnknownHintDefaultsAll(t *testing.T) {
	raw := RawNode{
		KindHint: "quizas",
		Children: []RawNode{{Leaf: true, Label: "texto libre"}},
	}
	node := Normalize(raw)
	require.NotNil(t, node)
	require.Equal(t, KindAll, node.Kind)
}

func TestNormalizeLeafDedupLastNameWins(t *testing.T) {
	raw := RawNode{Leaf: true, Label: "2 aprobaciones entre:\n" +
		"Curso de la U.C.B: 1030 - 1030\n" +
		"Examen de la U.C.B: 1031 - CALCULO 2\n" +
		"Curso de la U.C.B: 1030 - CALCULO 1"}

	node := Normalize(raw)
	require.NotNil(t, node)

	want := []Item{
		{Kind: "curso", Code: "1030", Name: "CALCULO 1"},
		{Kind: "examen", Code: "1031", Name: "CALCULO 2"},
	}
	if diff := cmp.Diff(want, node.Items); diff != "" {
		t.Fatal(diff)
	}
}

func TestNormalizeLeafKeepsCodelessItems(t *testing.T) {
	raw := RawNode{Leaf: true, Label: "1 aprobación entre:\n" +
		"Curso de la U.C.B: 1030 - CALCULO 1\n" +
		"ACTIVIDAD SIN CODIGO"}

	node := Normalize(raw)
	require.NotNil(t, node)
	require.Len(t, node.Items, 2)
	require.Equal(t, "ACTIVIDAD SIN CODIGO", node.Items[1].Raw)
}
