// Package previas stores normalized prerequisite trees for course
// offerings and answers satisfaction and reachability queries over
// them.
package previas

import (
	"database/sql"

	"bedelias-backend/services/previas/db"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("services/previas")

// Group scopes.
const (
	ScopeAll  = "ALL"
	ScopeAny  = "ANY"
	ScopeNone = "NONE"
)

// Group flavors.
const (
	FlavorGeneric   = "GENERIC"
	FlavorApprovals = "APPROVALS"
)

// Item target types and conditions.
const (
	TargetSubject  = "SUBJECT"
	TargetOffering = "OFFERING"

	ConditionApproved = "APPROVED"
	ConditionEnrolled = "ENROLLED"
	ConditionCredited = "CREDITED"
)

// Offering types.
const (
	OfferingCourse = "COURSE"
	OfferingExam   = "EXAM"
)

// Dependency edge kinds, derived from the owning group's scope.
const (
	EdgeRequiresAll    = "REQUIRES_ALL"
	EdgeAlternativeAny = "ALTERNATIVE_ANY"
	EdgeForbiddenNone  = "FORBIDDEN_NONE"
)

// Note kinds attached to groups for leaf rules that reference no
// concrete subject.
const (
	NoteCreditsInPlan = "CREDITS_IN_PLAN"
	NoteRawText       = "RAW_TEXT"
)

// pospreviasNote marks the synthetic group that accumulates inverse
// prerequisite listings; its presence is what distinguishes it from
// scraped-tree groups when a tree is rebuilt.
const pospreviasNote = "Generated from posprevias"

// pospreviasOrderIndex pushes the synthetic group after any scraped
// groups when rendering.
const pospreviasOrderIndex = 999

type Service struct {
	db  *sql.DB
	qry *db.Queries
}

func NewService(database *sql.DB) Service {
	return Service{
		db:  database,
		qry: db.New(database),
	}
}

// OfferingTypeFromMode maps a portal mode label ("Curso"/"Examen") or
// raw tipo string onto an offering type.
func OfferingTypeFromMode(mode string) string {
	switch normalizeMode(mode) {
	case "examen":
		return OfferingExam
	default:
		return OfferingCourse
	}
}

func normalizeMode(mode string) string {
	switch mode {
	case "Examen", "examen", "EXAMEN", "exam", "e":
		return "examen"
	default:
		return "curso"
	}
}

// ModeLabel is the inverse of OfferingTypeFromMode, used when
// rendering offerings back in the portal's vocabulary.
func ModeLabel(offeringType string) string {
	if offeringType == OfferingExam {
		return "Examen"
	}
	return "Curso"
}
