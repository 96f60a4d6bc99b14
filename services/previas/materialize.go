package previas

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/services/previas/db"
)

// materializeTree replaces an offering's scraped requirement tree with
// the given one. Scraped groups (empty note) and everything hanging
// off them go first, so re-loading an offering is repeatable; the
// posprevias group survives because its note marks it.
func (r *run) materializeTree(ctx context.Context, offering db.Offering, node *bedelias.Node) error {
	for _, del := range []func(context.Context, int64) error{
		r.qry.DeleteScrapedGroupItems,
		r.qry.DeleteScrapedGroupNotes,
		r.qry.DeleteScrapedGroupLinks,
		r.qry.DeleteScrapedGroupEdges,
		r.qry.DeleteScrapedGroups,
	} {
		if err := del(ctx, offering.ID); err != nil {
			return err
		}
	}
	return r.materializeNode(ctx, offering, node, nil, 0)
}

func (r *run) materializeNode(ctx context.Context, offering db.Offering, node *bedelias.Node, parent *db.RequirementGroup, order int64) error {
	switch node.Kind {
	case bedelias.KindAll, bedelias.KindNone:
		scope := ScopeAll
		if node.Kind == bedelias.KindNone {
			scope = ScopeNone
		}
		group, err := r.createGroup(ctx, offering, scope, FlavorGeneric, sql.NullInt64{}, order, parent)
		if err != nil {
			return err
		}
		return r.materializeChildren(ctx, offering, node, &group)

	case bedelias.KindAny:
		minRequired := int64(node.RequiredCount)
		if minRequired < 1 {
			minRequired = 1
		}
		flavor := FlavorGeneric
		// An ANY whose first child is an approvals leaf is really the
		// portal's "N aprobaciones entre" construct; the leaf's count
		// is the group's threshold.
		if len(node.Children) > 0 && isApprovalsLeaf(node.Children[0]) {
			flavor = FlavorApprovals
			if node.Children[0].RequiredCount >= 1 {
				minRequired = int64(node.Children[0].RequiredCount)
			}
		}
		group, err := r.createGroup(ctx, offering, ScopeAny, flavor,
			sql.NullInt64{Int64: minRequired, Valid: true}, order, parent)
		if err != nil {
			return err
		}
		return r.materializeChildren(ctx, offering, node, &group)

	case bedelias.KindLeaf:
		return r.materializeLeaf(ctx, offering, node, parent, order)

	default:
		return fmt.Errorf("unknown node kind %q", node.Kind)
	}
}

func (r *run) materializeChildren(ctx context.Context, offering db.Offering, node *bedelias.Node, group *db.RequirementGroup) error {
	for i, child := range node.Children {
		if err := r.materializeNode(ctx, offering, child, group, int64(i)); err != nil {
			return err
		}
	}
	return nil
}

func isApprovalsLeaf(node *bedelias.Node) bool {
	return node.Kind == bedelias.KindLeaf && node.Rule == bedelias.RuleMinApprovals
}

func (r *run) materializeLeaf(ctx context.Context, offering db.Offering, node *bedelias.Node, parent *db.RequirementGroup, order int64) error {
	switch node.Rule {
	case bedelias.RuleMinApprovals:
		group := parent
		// Approvals leaves normally hang off an ANY parent that
		// already absorbed their threshold. Anywhere else they get a
		// synthetic ANY group of their own.
		if parent == nil || parent.Scope != ScopeAny {
			minRequired := int64(node.RequiredCount)
			if minRequired < 1 {
				minRequired = 1
			}
			synthetic, err := r.createGroup(ctx, offering, ScopeAny, FlavorApprovals,
				sql.NullInt64{Int64: minRequired, Valid: true}, order, parent)
			if err != nil {
				return err
			}
			group = &synthetic
		}
		return r.materializeItems(ctx, *group, node.Items)

	case bedelias.RuleCreditsInPlan:
		group, err := r.noteGroup(ctx, offering, parent, order)
		if err != nil {
			return err
		}
		err = r.qry.CreateGroupNote(ctx, db.CreateGroupNoteParams{
			GroupID: group.ID,
			Kind:    NoteCreditsInPlan,
			Credits: sql.NullInt64{Int64: int64(node.Credits), Valid: true},
			Plan:    node.Plan,
		})
		if err != nil {
			return err
		}
		r.res.Notes++
		return nil

	case bedelias.RuleRawText:
		return r.materializeRawText(ctx, offering, node, parent, order)

	default:
		return fmt.Errorf("unknown leaf rule %q", node.Rule)
	}
}

// noteGroup returns the group a note-only leaf should attach to,
// creating a root ALL group when the leaf has no parent.
func (r *run) noteGroup(ctx context.Context, offering db.Offering, parent *db.RequirementGroup, order int64) (db.RequirementGroup, error) {
	if parent != nil {
		return *parent, nil
	}
	return r.createGroup(ctx, offering, ScopeAll, FlavorGeneric, sql.NullInt64{}, order, nil)
}

var rawCodeTokenRegex = regexp.MustCompile(`\b[A-Z0-9]+\b`)

// materializeRawText gives an unclassified leaf a best-effort chance
// to become a real item: the first alphanumeric token that resolves to
// a known subject is used, otherwise the text lands on the group as a
// note so nothing is silently lost.
func (r *run) materializeRawText(ctx context.Context, offering db.Offering, node *bedelias.Node, parent *db.RequirementGroup, order int64) error {
	group, err := r.noteGroup(ctx, offering, parent, order)
	if err != nil {
		return err
	}

	for _, token := range rawCodeTokenRegex.FindAllString(node.Value, 4) {
		code := bedelias.CanonicalCode(token)
		subject, ok, err := r.findSubjectByCode(ctx, code)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		return r.createItem(ctx, group, subject, 0, node.Value)
	}

	err = r.qry.CreateGroupNote(ctx, db.CreateGroupNoteParams{
		GroupID: group.ID,
		Kind:    NoteRawText,
		Value:   node.Value,
	})
	if err != nil {
		return err
	}
	r.res.Notes++
	r.res.Warnings++
	slog.WarnContext(ctx, "requirement text kept as note",
		slog.String("text", node.Value))
	return nil
}

func (r *run) materializeItems(ctx context.Context, group db.RequirementGroup, items []bedelias.Item) error {
	for i, item := range items {
		if item.Code == "" {
			r.res.Warnings++
			slog.WarnContext(ctx, "requirement item without a code",
				slog.String("raw", item.Raw))
			continue
		}
		subject, ok, err := r.findSubjectByCode(ctx, item.Code)
		if err != nil {
			return err
		}
		if !ok {
			r.res.Warnings++
			r.res.addMissing(item.Code)
			slog.WarnContext(ctx, "requirement item references unknown subject",
				slog.String("code", item.Code), slog.String("name", item.Name))
			continue
		}
		label := item.Name
		if label == "" {
			label = item.Code
		}
		err = r.createItem(ctx, group, subject, int64(i), fmt.Sprintf("%s - %s", item.Code, label))
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *run) createItem(ctx context.Context, group db.RequirementGroup, subject db.Subject, order int64, altLabel string) error {
	err := r.qry.CreateRequirementItem(ctx, db.CreateRequirementItemParams{
		GroupID:         group.ID,
		TargetType:      TargetSubject,
		TargetSubjectID: sql.NullInt64{Int64: subject.ID, Valid: true},
		Condition:       ConditionApproved,
		AltCode:         subject.Code,
		AltLabel:        altLabel,
		OrderIndex:      order,
	})
	if err != nil {
		return err
	}
	r.res.Items++

	err = r.qry.CreateDependencyEdge(ctx, db.CreateDependencyEdgeParams{
		SubjectID:  subject.ID,
		OfferingID: group.OfferingID,
		GroupID:    group.ID,
		Kind:       edgeKind(group.Scope),
		Condition:  ConditionApproved,
	})
	if err != nil {
		return err
	}
	r.res.Edges++
	return nil
}

func edgeKind(scope string) string {
	switch scope {
	case ScopeAny:
		return EdgeAlternativeAny
	case ScopeNone:
		return EdgeForbiddenNone
	default:
		return EdgeRequiresAll
	}
}

func (r *run) createGroup(ctx context.Context, offering db.Offering, scope, flavor string, minRequired sql.NullInt64, order int64, parent *db.RequirementGroup) (db.RequirementGroup, error) {
	if err := validateGroup(scope, minRequired); err != nil {
		return db.RequirementGroup{}, err
	}
	group, err := r.qry.CreateRequirementGroup(ctx, db.CreateRequirementGroupParams{
		OfferingID:  offering.ID,
		Scope:       scope,
		Flavor:      flavor,
		MinRequired: minRequired,
		OrderIndex:  order,
	})
	if err != nil {
		return db.RequirementGroup{}, err
	}
	r.res.Groups++

	if parent != nil {
		err = r.qry.CreateGroupLink(ctx, db.CreateGroupLinkParams{
			ParentGroupID: parent.ID,
			ChildGroupID:  group.ID,
			OrderIndex:    order,
		})
		if err != nil {
			return db.RequirementGroup{}, err
		}
		r.res.Links++
	}
	return group, nil
}

// validateGroup enforces that ANY groups carry a threshold of at least
// one and no other scope carries one at all.
func validateGroup(scope string, minRequired sql.NullInt64) error {
	if scope == ScopeAny {
		if !minRequired.Valid || minRequired.Int64 < 1 {
			return fmt.Errorf("ANY group requires min_required >= 1, got %+v", minRequired)
		}
		return nil
	}
	if minRequired.Valid {
		return fmt.Errorf("%s group must not carry min_required", scope)
	}
	return nil
}
