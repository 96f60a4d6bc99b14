package bedelias

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestClassifyLeafMinApprovals(t *testing.T) {
	text := "2 aprobaciones entre:\n" +
		"Curso de la U.C.B: 1030 - CALCULO 1\n" +
		"Examen de la U.C.B: 1031 - CALCULO 2\n" +
		"U.C.B aprobada: CENURLN - SRN14 - ANALISIS NUMERICO"

	node := ClassifyLeaf(text)
	require.Equal(t, KindLeaf, node.Kind)
	require.Equal(t, RuleMinApprovals, node.Rule)
	require.Equal(t, 2, node.RequiredCount)

	want := []Item{
		{Kind: "curso", Code: "1030", Name: "CALCULO 1"},
		{Kind: "examen", Code: "1031", Name: "CALCULO 2"},
		{Kind: "u.c.b aprobada", Code: "CENURLN - SRN14", Name: "ANALISIS NUMERICO"},
	}
	if diff := cmp.Diff(want, node.Items); diff != "" {
		t.Fatal(diff)
	}
}

func TestClassifyLeafSingularApproval(t *testing.T) {
	node := ClassifyLeaf("1 aprobación entre:\nCurso de la U.C.B: 1020 - GAL 1")
	require.Equal(t, RuleMinApprovals, node.Rule)
	require.Equal(t, 1, node.RequiredCount)
	require.Len(t, node.Items, 1)
	require.Equal(t, "1020", node.Items[0].Code)
}

func TestClassifyLeafApprovalHeadingVariants(t *testing.T) {
	for _, head := range []string{
		"1 aprobación entre:",
		"2 aprobación/es entre:",
		"2 aprobaciones entre:",
		"2 APROBACION/ES ENTRE",
	} {
		node := ClassifyLeaf(head + "\nCurso de la U.C.B: 1020 - GAL 1")
		require.Equal(t, RuleMinApprovals, node.Rule, head)
	}
}

func TestClassifyLeafCreditsInline(t *testing.T) {
	node := ClassifyLeaf("80 créditos en el Plan: 1997 INGENIERIA ELECTRICA")
	require.Equal(t, RuleCreditsInPlan, node.Rule)
	require.Equal(t, 80, node.Credits)
	require.Equal(t, "1997 INGENIERIA ELECTRICA", node.Plan)
}

func TestClassifyLeafCreditsFollowingLines(t *testing.T) {
	node := ClassifyLeaf("80 créditos en el Plan:\n1997\nINGENIERIA ELECTRICA")
	require.Equal(t, RuleCreditsInPlan, node.Rule)
	require.Equal(t, 80, node.Credits)
	require.Equal(t, "1997 INGENIERIA ELECTRICA", node.Plan)
}

func TestClassifyLeafRawFallback(t *testing.T) {
	node := ClassifyLeaf("Previas especiales: consultar en bedelía")
	require.Equal(t, RuleRawText, node.Rule)
	require.Equal(t, "Previas especiales: consultar en bedelía", node.Value)
}

func TestClassifyLeafEmpty(t *testing.T) {
	node := ClassifyLeaf("   \n  ")
	require.Equal(t, RuleRawText, node.Rule)
	require.Empty(t, node.Value)
}

func TestParseItemLineUnparseable(t *testing.T) {
	item := ParseItemLine("SIN FORMATO CONOCIDO")
	require.Empty(t, item.Code)
	require.Equal(t, "SIN FORMATO CONOCIDO", item.Raw)
}

func TestParseItemLineGenericSplit(t *testing.T) {
	item := ParseItemLine("1440 - FISICA 1")
	require.Equal(t, "1440", item.Code)
	require.Equal(t, "FISICA 1", item.Name)
	require.Equal(t, "u.c.b aprobada", item.Kind)
}

func TestCanonicalCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1030", "1030"},
		{"CENURLN - SRN14 - 1030", "1030"},
		{"  GAL1 ", "GAL1"},
		{"U.C.B 14405", "14405"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, CanonicalCode(c.in), "input %q", c.in)
	}
}
