package previas

import (
	"context"
	"database/sql"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/services/previas/db"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// OfferingFilters narrows query results. Zero values mean "no filter".
type OfferingFilters struct {
	Type       string
	Term       string
	ProgramID  int64
	ActiveOnly bool
}

func (f OfferingFilters) keep(typ, term string, programID, isActive int64) bool {
	if f.Type != "" && f.Type != typ {
		return false
	}
	if f.Term != "" && f.Term != term {
		return false
	}
	if f.ProgramID != 0 && f.ProgramID != programID {
		return false
	}
	if f.ActiveOnly && isActive == 0 {
		return false
	}
	return true
}

// OfferingSummary is one offering in query output.
type OfferingSummary struct {
	OfferingID  int64
	SubjectCode string
	SubjectName string
	Type        string
	Term        string
	Section     string
	Credits     *float64
}

// AvailableOfferings returns every offering whose requirements the
// given approved subjects satisfy, ordered by subject code.
func (s Service) AvailableOfferings(ctx context.Context, approvedCodes []string, filters OfferingFilters) ([]OfferingSummary, error) {
	ctx, span := tracer.Start(ctx, "AvailableOfferings")
	defer span.End()
	span.SetAttributes(attribute.Int("approved_count", len(approvedCodes)))

	approved, err := s.resolveApproved(ctx, approvedCodes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	offerings, err := s.qry.ListOfferings(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	var out []OfferingSummary
	for _, o := range offerings {
		if !filters.keep(o.Type, o.Term, o.ProgramID, o.IsActive) {
			continue
		}
		ok, err := s.IsSatisfied(ctx, o.ID, approved)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		if ok {
			out = append(out, OfferingSummary{
				OfferingID:  o.ID,
				SubjectCode: o.SubjectCode,
				SubjectName: o.SubjectName,
				Type:        o.Type,
				Term:        o.Term,
				Section:     o.Section,
				Credits:     floatPtr(o.Credits),
			})
		}
	}
	return out, nil
}

// UnlockedBy returns the offerings that reference any of the given
// subjects in their requirements, each offering once, ordered by
// subject code. It answers "what does passing these open up".
func (s Service) UnlockedBy(ctx context.Context, subjectCodes []string, filters OfferingFilters) ([]OfferingSummary, error) {
	ctx, span := tracer.Start(ctx, "UnlockedBy")
	defer span.End()

	subjects, err := s.qry.ListSubjectsByCodes(ctx, canonicalCodes(subjectCodes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	ids := make([]int64, 0, len(subjects))
	for _, subject := range subjects {
		ids = append(ids, subject.ID)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := s.qry.ListOfferingsReferencingSubjects(ctx, ids)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}

	seen := make(map[int64]bool, len(rows))
	var out []OfferingSummary
	for _, o := range rows {
		if seen[o.ID] || !filters.keep(o.Type, o.Term, o.ProgramID, o.IsActive) {
			continue
		}
		seen[o.ID] = true
		out = append(out, OfferingSummary{
			OfferingID:  o.ID,
			SubjectCode: o.SubjectCode,
			SubjectName: o.SubjectName,
			Type:        o.Type,
			Term:        o.Term,
			Section:     o.Section,
			Credits:     floatPtr(o.Credits),
		})
	}
	return out, nil
}

// GroupTree is one requirement group with its contents, for rendering.
type GroupTree struct {
	Group    db.RequirementGroup
	Items    []db.RequirementItem
	Notes    []db.RequirementGroupNote
	Children []GroupTree
}

// RequirementTree fetches an offering's full requirement forest.
func (s Service) RequirementTree(ctx context.Context, offeringID int64) ([]GroupTree, error) {
	ctx, span := tracer.Start(ctx, "RequirementTree")
	defer span.End()
	span.SetAttributes(attribute.Int64("offering_id", offeringID))

	roots, err := s.qry.GetRootGroups(ctx, offeringID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return nil, err
	}
	out := make([]GroupTree, 0, len(roots))
	for _, root := range roots {
		tree, err := s.groupTree(ctx, root, make(map[int64]bool))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return nil, err
		}
		out = append(out, tree)
	}
	return out, nil
}

func (s Service) groupTree(ctx context.Context, group db.RequirementGroup, visited map[int64]bool) (GroupTree, error) {
	if visited[group.ID] {
		return GroupTree{Group: group}, nil
	}
	visited[group.ID] = true

	items, err := s.qry.GetGroupItems(ctx, group.ID)
	if err != nil {
		return GroupTree{}, err
	}
	notes, err := s.qry.GetGroupNotes(ctx, group.ID)
	if err != nil {
		return GroupTree{}, err
	}
	children, err := s.qry.GetChildGroups(ctx, group.ID)
	if err != nil {
		return GroupTree{}, err
	}

	tree := GroupTree{Group: group, Items: items, Notes: notes}
	for _, child := range children {
		sub, err := s.groupTree(ctx, child, visited)
		if err != nil {
			return GroupTree{}, err
		}
		tree.Children = append(tree.Children, sub)
	}
	return tree, nil
}

// resolveApproved maps approved subject codes onto every matching
// subject id, across programs, since requirement items may resolve a
// shared code to another program's subject row.
func (s Service) resolveApproved(ctx context.Context, codes []string) (map[int64]bool, error) {
	if len(codes) == 0 {
		return map[int64]bool{}, nil
	}
	subjects, err := s.qry.ListSubjectsByCodes(ctx, canonicalCodes(codes))
	if err != nil {
		return nil, err
	}
	approved := make(map[int64]bool, len(subjects))
	for _, subject := range subjects {
		approved[subject.ID] = true
	}
	return approved, nil
}

func canonicalCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if c := bedelias.CanonicalCode(code); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
