package previas

import (
	"context"
	"log/slog"

	"bedelias-backend/services/previas/db"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
)

// IsSatisfied reports whether the set of approved subjects meets every
// root requirement group of the offering. An offering with no groups
// has no prerequisites and is always satisfied.
func (s Service) IsSatisfied(ctx context.Context, offeringID int64, approved map[int64]bool) (bool, error) {
	ctx, span := tracer.Start(ctx, "IsSatisfied")
	defer span.End()
	span.SetAttributes(attribute.Int64("offering_id", offeringID))

	roots, err := s.qry.GetRootGroups(ctx, offeringID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		return false, err
	}
	visited := make(map[int64]bool)
	for _, group := range roots {
		ok, err := s.groupSatisfied(ctx, group, approved, visited)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(otelcodes.Error, err.Error())
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// groupSatisfied evaluates one group over the approved set. The
// group's universe is its items plus its child groups; ALL needs every
// member, ANY needs min_required, NONE needs zero.
func (s Service) groupSatisfied(ctx context.Context, group db.RequirementGroup, approved map[int64]bool, visited map[int64]bool) (bool, error) {
	if visited[group.ID] {
		// Links are acyclic by construction; a revisit means corrupt
		// data, so fail closed rather than recurse forever.
		slog.WarnContext(ctx, "requirement group cycle detected",
			slog.Int64("group_id", group.ID))
		return false, nil
	}
	visited[group.ID] = true
	defer delete(visited, group.ID)

	items, err := s.qry.GetGroupItems(ctx, group.ID)
	if err != nil {
		return false, err
	}
	children, err := s.qry.GetChildGroups(ctx, group.ID)
	if err != nil {
		return false, err
	}

	total := len(items) + len(children)
	if total == 0 {
		// A vacuous NONE forbids nothing; vacuous ALL/ANY demand
		// nothing either.
		return true, nil
	}

	satisfied := 0
	for _, item := range items {
		ok, err := itemSatisfied(ctx, item, approved)
		if err != nil {
			return false, err
		}
		if ok {
			satisfied++
		}
	}
	for _, child := range children {
		ok, err := s.groupSatisfied(ctx, child, approved, visited)
		if err != nil {
			return false, err
		}
		if ok {
			satisfied++
		}
	}

	switch group.Scope {
	case ScopeAll:
		return satisfied == total, nil
	case ScopeAny:
		minRequired := int64(1)
		if group.MinRequired.Valid {
			minRequired = group.MinRequired.Int64
		}
		return int64(satisfied) >= minRequired, nil
	case ScopeNone:
		return satisfied == 0, nil
	default:
		return false, nil
	}
}

func itemSatisfied(ctx context.Context, item db.RequirementItem, approved map[int64]bool) (bool, error) {
	switch item.TargetType {
	case TargetSubject:
		if !item.TargetSubjectID.Valid {
			return false, nil
		}
		return approved[item.TargetSubjectID.Int64], nil
	case TargetOffering:
		// Offering-level targets exist in the schema but nothing
		// writes them yet; treat as unmet so new data degrades loudly.
		slog.WarnContext(ctx, "offering-targeted requirement item not evaluated",
			slog.Int64("item_id", item.ID))
		return false, nil
	default:
		return false, nil
	}
}
