package previas

import (
	"context"
	"testing"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/lib/testutil"
	"bedelias-backend/services/previas/db"

	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) (Service, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "previas",
		DbSchema: db.Schema,
	})
	// a single connection keeps every query on the same in-memory db
	res.DB.SetMaxOpenConns(1)
	return NewService(res.DB), cleanup
}

func approvalsLeaf(count int, codes ...string) *bedelias.Node {
	leaf := &bedelias.Node{
		Kind:          bedelias.KindLeaf,
		Rule:          bedelias.RuleMinApprovals,
		RequiredCount: count,
	}
	for _, code := range codes {
		leaf.Items = append(leaf.Items, bedelias.Item{
			Kind: "u.c.b aprobada",
			Code: code,
			Name: code,
		})
	}
	return leaf
}

func anyOf(count int, codes ...string) *bedelias.Node {
	return &bedelias.Node{
		Kind:          bedelias.KindAny,
		RequiredCount: count,
		Children:      []*bedelias.Node{approvalsLeaf(count, codes...)},
	}
}

func testInput() IngestInput {
	return IngestInput{
		Subjects: []SubjectRecord{
			{Code: "1020", Name: "GAL 1", Credits: f(10)},
			{Code: "1030", Name: "CALCULO 1", Credits: f(12)},
			{Code: "1440", Name: "FISICA 1", Credits: f(10)},
			{Code: "2040", Name: "TERMODINAMICA", Credits: f(8)},
		},
		Requirements: map[string]NormalizedEntry{
			"1440 - FISICA 1": {
				Code:         "1440 - FISICA 1",
				Mode:         "Curso",
				Requirements: anyOf(1, "1020", "1030"),
			},
			"2040 - TERMODINAMICA": {
				Code: "2040 - TERMODINAMICA",
				Mode: "Curso",
				Requirements: &bedelias.Node{
					Kind: bedelias.KindAll,
					Children: []*bedelias.Node{
						anyOf(1, "1020"),
						anyOf(1, "1030"),
					},
				},
			},
		},
		Posprevias: map[string]PosEntry{
			"1020": {
				Nombre:     "GAL 1",
				Posprevias: []PosPrevia{{Codigo: "1440", Nombre: "FISICA 1", Tipo: "curso"}},
			},
		},
		Vigentes: []VigenteEntry{{Codigo: "1020", Nombre: "GAL 1"}},
	}
}

func TestIngestAndAvailability(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	res, err := svc.Ingest(ctx, IngestOptions{Program: "FING", PlanYear: 1997, Term: "2026"}, testInput())
	require.NoError(t, err)
	require.Equal(t, 4, res.Subjects)
	require.Equal(t, 3, res.Offerings)
	require.Zero(t, res.FailedEntries)
	require.Empty(t, res.MissingSubjects)

	// nothing approved: only the prerequisite-free vigente course
	available, err := svc.AvailableOfferings(ctx, nil, OfferingFilters{})
	require.NoError(t, err)
	require.Equal(t, []string{"1020"}, summaryCodes(available))

	available, err = svc.AvailableOfferings(ctx, []string{"1020"}, OfferingFilters{})
	require.NoError(t, err)
	require.Equal(t, []string{"1020", "1440"}, summaryCodes(available))

	available, err = svc.AvailableOfferings(ctx, []string{"1020", "1030"}, OfferingFilters{})
	require.NoError(t, err)
	require.Equal(t, []string{"1020", "1440", "2040"}, summaryCodes(available))
}

func TestUnlockedByDeduplicates(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.Ingest(ctx, IngestOptions{Program: "FING", PlanYear: 1997, Term: "2026"}, testInput())
	require.NoError(t, err)

	// 1020 reaches the 1440 offering twice (scraped tree and
	// posprevias group) but the offering must come back once.
	unlocked, err := svc.UnlockedBy(ctx, []string{"1020"}, OfferingFilters{})
	require.NoError(t, err)
	require.Equal(t, []string{"1440", "2040"}, summaryCodes(unlocked))
}

func TestIngestIsRepeatable(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()
	opts := IngestOptions{Program: "FING", PlanYear: 1997, Term: "2026"}

	_, err := svc.Ingest(ctx, opts, testInput())
	require.NoError(t, err)
	first := tableCounts(t, svc)

	_, err = svc.Ingest(ctx, opts, testInput())
	require.NoError(t, err)
	require.Equal(t, first, tableCounts(t, svc))
}

func TestIngestRecordsMissingSubjects(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	input := IngestInput{
		Subjects: []SubjectRecord{{Code: "1030", Name: "CALCULO 1"}},
		Requirements: map[string]NormalizedEntry{
			"1030 - CALCULO 1": {
				Code:         "1030 - CALCULO 1",
				Mode:         "Curso",
				Requirements: anyOf(1, "9999"),
			},
		},
	}
	res, err := svc.Ingest(ctx, IngestOptions{Program: "FING", Term: "2026"}, input)
	require.NoError(t, err)
	require.Equal(t, []string{"9999"}, res.MissingSubjects)
	require.NotZero(t, res.Warnings)
}

func TestRequirementTree(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	_, err := svc.Ingest(ctx, IngestOptions{Program: "FING", PlanYear: 1997, Term: "2026"}, testInput())
	require.NoError(t, err)

	offering := offeringByCode(t, svc, "2040")
	trees, err := svc.RequirementTree(ctx, offering)
	require.NoError(t, err)
	require.Len(t, trees, 1)

	root := trees[0]
	require.Equal(t, ScopeAll, root.Group.Scope)
	require.Len(t, root.Children, 2)
	for _, child := range root.Children {
		require.Equal(t, ScopeAny, child.Group.Scope)
		require.Equal(t, FlavorApprovals, child.Group.Flavor)
		require.Len(t, child.Items, 1)
	}
}

func TestIngestPersistsNoteRules(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	input := IngestInput{
		Subjects: []SubjectRecord{
			{Code: "1020", Name: "GAL 1"},
			{Code: "3200", Name: "MECANICA"},
		},
		Requirements: map[string]NormalizedEntry{
			"3200 - MECANICA": {
				Code: "3200 - MECANICA",
				Mode: "Curso",
				Requirements: &bedelias.Node{
					Kind: bedelias.KindAll,
					Children: []*bedelias.Node{
						{
							Kind:    bedelias.KindLeaf,
							Rule:    bedelias.RuleCreditsInPlan,
							Credits: 80,
							Plan:    "1997 INGENIERIA",
						},
						{
							Kind:  bedelias.KindLeaf,
							Rule:  bedelias.RuleRawText,
							Value: "Consultar 1020 en bedelía",
						},
						{
							Kind:  bedelias.KindLeaf,
							Rule:  bedelias.RuleRawText,
							Value: "Previas especiales ZZZZ",
						},
					},
				},
			},
		},
	}
	res, err := svc.Ingest(ctx, IngestOptions{Program: "FING", PlanYear: 1997, Term: "2026"}, input)
	require.NoError(t, err)
	require.Equal(t, 2, res.Notes)
	require.Equal(t, 1, res.Items)
	require.NotZero(t, res.Warnings)

	type note struct {
		Kind    string
		Credits int64
		Plan    string
		Value   string
	}
	rows, err := svc.db.Query(`
		SELECT kind, coalesce(credits, 0), plan, value
		FROM requirement_group_notes ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var notes []note
	for rows.Next() {
		var n note
		require.NoError(t, rows.Scan(&n.Kind, &n.Credits, &n.Plan, &n.Value))
		notes = append(notes, n)
	}
	require.NoError(t, rows.Err())
	require.Equal(t, []note{
		{Kind: NoteCreditsInPlan, Credits: 80, Plan: "1997 INGENIERIA"},
		{Kind: NoteRawText, Value: "Previas especiales ZZZZ"},
	}, notes)

	// the resolvable token became a real item carrying the full text
	var itemCode, altLabel string
	err = svc.db.QueryRow(`
		SELECT s.code, i.alt_label
		FROM requirement_items i
		JOIN subjects s ON s.id = i.target_subject_id`).Scan(&itemCode, &altLabel)
	require.NoError(t, err)
	require.Equal(t, "1020", itemCode)
	require.Equal(t, "Consultar 1020 en bedelía", altLabel)
}

func TestAnyGroupWithoutThresholdRequiresOne(t *testing.T) {
	svc, cleanup := setupService(t)
	defer cleanup()
	ctx := context.Background()

	// The schema forbids an ANY group without a threshold, so stage
	// the corrupt shape directly: one unmet item hanging off a group
	// row that never made it in.
	_, err := svc.db.Exec(`
		INSERT INTO requirement_items (group_id, target_type, target_subject_id)
		VALUES (9999, 'SUBJECT', 1)`)
	require.NoError(t, err)

	group := db.RequirementGroup{ID: 9999, Scope: ScopeAny}
	ok, err := svc.groupSatisfied(ctx, group, map[int64]bool{}, map[int64]bool{})
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = svc.groupSatisfied(ctx, group, map[int64]bool{1: true}, map[int64]bool{})
	require.NoError(t, err)
	require.True(t, ok)
}

func summaryCodes(offerings []OfferingSummary) []string {
	out := make([]string, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, o.SubjectCode)
	}
	return out
}

func tableCounts(t *testing.T, svc Service) map[string]int {
	t.Helper()
	counts := make(map[string]int)
	for _, table := range []string{
		"subjects", "offerings", "requirement_groups",
		"requirement_group_links", "requirement_items",
		"requirement_group_notes", "dependency_edges",
	} {
		var n int
		if err := svc.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
			t.Fatal(err)
		}
		counts[table] = n
	}
	return counts
}

func offeringByCode(t *testing.T, svc Service, code string) int64 {
	t.Helper()
	var id int64
	err := svc.db.QueryRow(`
		SELECT o.id FROM offerings o
		JOIN subjects s ON s.id = o.subject_id
		WHERE s.code = ?`, code).Scan(&id)
	if err != nil {
		t.Fatal(err)
	}
	return id
}
