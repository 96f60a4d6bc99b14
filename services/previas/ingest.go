package previas

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"bedelias-backend/lib/scrapers/bedelias"
	"bedelias-backend/services/previas/db"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// IngestOptions identifies the program being loaded and the term to
// stamp on offerings the data never dates.
type IngestOptions struct {
	Program  string
	PlanYear int64
	Term     string
}

// IngestInput bundles one program's normalized data. Subjects and
// Requirements come out of Convert; Posprevias and Vigentes are the
// raw portal listings.
type IngestInput struct {
	Subjects     []SubjectRecord
	Requirements map[string]NormalizedEntry
	Posprevias   map[string]PosEntry
	Vigentes     []VigenteEntry
}

// IngestResult reports what a load run did. Failed entries roll back
// individually; the rest of their phase still commits.
type IngestResult struct {
	Subjects        int
	SubjectsUpdated int
	Offerings       int
	Groups          int
	Links           int
	Items           int
	Notes           int
	Edges           int
	Vigentes        int
	FailedEntries   int
	Warnings        int
	MissingSubjects []string

	missing map[string]bool
}

func (r *IngestResult) addMissing(code string) {
	if r.missing == nil {
		r.missing = make(map[string]bool)
	}
	if !r.missing[code] {
		r.missing[code] = true
		r.MissingSubjects = append(r.MissingSubjects, code)
	}
}

func (r *IngestResult) finish() {
	sort.Strings(r.MissingSubjects)
}

type offeringKey struct {
	subjectID int64
	typ       string
	term      string
	section   string
}

// run carries the per-load caches. qry is rebound to each phase's
// transaction.
type run struct {
	qry       *db.Queries
	opts      IngestOptions
	program   db.Program
	subjects  map[string]db.Subject
	offerings map[offeringKey]db.Offering
	res       *IngestResult
}

// Ingest loads one program's data in four phases, each in its own
// transaction: subjects, requirement trees, posprevias, vigentes.
// Within a phase every top-level entry runs under a savepoint so a
// malformed entry rolls back alone.
func (s Service) Ingest(ctx context.Context, opts IngestOptions, input IngestInput) (IngestResult, error) {
	ctx, span := tracer.Start(ctx, "Ingest")
	defer span.End()
	span.SetAttributes(
		attribute.String("program", opts.Program),
		attribute.Int64("plan_year", opts.PlanYear),
	)

	res := IngestResult{}
	r := &run{
		opts:      opts,
		subjects:  make(map[string]db.Subject),
		offerings: make(map[offeringKey]db.Offering),
		res:       &res,
	}

	phases := []struct {
		name string
		fn   func(ctx context.Context, tx *sql.Tx) error
	}{
		{"subjects", func(ctx context.Context, tx *sql.Tx) error {
			return r.loadSubjects(ctx, tx, input.Subjects)
		}},
		{"requirements", func(ctx context.Context, tx *sql.Tx) error {
			return r.loadRequirements(ctx, tx, input.Requirements)
		}},
		{"posprevias", func(ctx context.Context, tx *sql.Tx) error {
			return r.loadPosprevias(ctx, tx, input.Posprevias)
		}},
		{"vigentes", func(ctx context.Context, tx *sql.Tx) error {
			return r.loadVigentes(ctx, tx, input.Vigentes)
		}},
	}
	for _, phase := range phases {
		if err := s.runPhase(ctx, r, phase.name, phase.fn); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			res.finish()
			return res, fmt.Errorf("phase %s: %w", phase.name, err)
		}
	}

	res.finish()
	return res, nil
}

func (s Service) runPhase(ctx context.Context, r *run, name string, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, span := tracer.Start(ctx, "phase:"+name)
	defer span.End()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	r.qry = s.qry.WithTx(tx)

	if r.program.ID == 0 {
		r.program, err = getOrCreateProgram(ctx, r.qry, r.opts.Program, r.opts.PlanYear)
		if err != nil {
			return err
		}
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// entryScope runs fn under a savepoint and rolls back just fn's writes
// when it fails.
func entryScope(ctx context.Context, tx *sql.Tx, fn func() error) error {
	if _, err := tx.ExecContext(ctx, "SAVEPOINT entry"); err != nil {
		return err
	}
	if err := fn(); err != nil {
		if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT entry"); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		if _, relErr := tx.ExecContext(ctx, "RELEASE SAVEPOINT entry"); relErr != nil {
			return errors.Join(err, relErr)
		}
		return err
	}
	_, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT entry")
	return err
}

func (r *run) failEntry(ctx context.Context, entry string, err error) {
	r.res.FailedEntries++
	r.res.Warnings++
	slog.WarnContext(ctx, "entry failed, rolled back",
		slog.String("entry", entry), slog.String("error", err.Error()))
}

func getOrCreateProgram(ctx context.Context, qry *db.Queries, name string, planYear int64) (db.Program, error) {
	if name == "" {
		name = "Default Program"
	}
	program, err := qry.GetProgram(ctx, db.GetProgramParams{Name: name, PlanYear: planYear})
	if err == nil {
		return program, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.Program{}, err
	}
	return qry.CreateProgram(ctx, db.CreateProgramParams{Name: name, PlanYear: planYear})
}

func (r *run) loadSubjects(ctx context.Context, tx *sql.Tx, subjects []SubjectRecord) error {
	for _, rec := range subjects {
		rec := rec
		err := entryScope(ctx, tx, func() error {
			return r.upsertSubject(ctx, rec)
		})
		if err != nil {
			r.failEntry(ctx, rec.Code, err)
		}
	}
	return nil
}

func (r *run) upsertSubject(ctx context.Context, rec SubjectRecord) error {
	code := bedelias.CanonicalCode(rec.Code)
	if code == "" {
		return fmt.Errorf("subject record without a code: %q", rec.Name)
	}

	existing, err := r.qry.GetSubject(ctx, db.GetSubjectParams{ProgramID: r.program.ID, Code: code})
	if errors.Is(err, sql.ErrNoRows) {
		name := rec.Name
		if name == "" {
			name = code
		}
		subject, err := r.qry.CreateSubject(ctx, db.CreateSubjectParams{
			ProgramID: r.program.ID,
			Code:      code,
			Name:      name,
			Credits:   nullFloat(rec.Credits),
		})
		if err != nil {
			return err
		}
		r.subjects[code] = subject
		r.res.Subjects++
		return nil
	}
	if err != nil {
		return err
	}

	updated := existing
	if isPlaceholderName(existing.Name, code) && !isPlaceholderName(rec.Name, code) {
		updated.Name = rec.Name
	}
	if !existing.Credits.Valid && rec.Credits != nil {
		updated.Credits = nullFloat(rec.Credits)
	}
	if updated != existing {
		err := r.qry.UpdateSubjectInfo(ctx, db.UpdateSubjectInfoParams{
			Name:    updated.Name,
			Credits: updated.Credits,
			ID:      existing.ID,
		})
		if err != nil {
			return err
		}
		r.res.SubjectsUpdated++
	}
	r.subjects[code] = updated
	return nil
}

// findSubjectByCode resolves a canonical code against the run cache,
// then the program's subjects, then any program.
func (r *run) findSubjectByCode(ctx context.Context, code string) (db.Subject, bool, error) {
	if subject, ok := r.subjects[code]; ok {
		return subject, true, nil
	}
	subject, err := r.qry.GetSubject(ctx, db.GetSubjectParams{ProgramID: r.program.ID, Code: code})
	if errors.Is(err, sql.ErrNoRows) {
		subject, err = r.qry.GetSubjectByCode(ctx, code)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return db.Subject{}, false, nil
	}
	if err != nil {
		return db.Subject{}, false, err
	}
	r.subjects[code] = subject
	return subject, true, nil
}

func (r *run) getOrCreateOffering(ctx context.Context, subject db.Subject, typ string) (db.Offering, error) {
	key := offeringKey{subjectID: subject.ID, typ: typ, term: r.opts.Term, section: ""}
	if offering, ok := r.offerings[key]; ok {
		return offering, nil
	}

	offering, err := r.qry.GetOfferingByKey(ctx, db.GetOfferingByKeyParams{
		SubjectID: subject.ID,
		Type:      typ,
		Term:      r.opts.Term,
		Section:   "",
	})
	if errors.Is(err, sql.ErrNoRows) {
		offering, err = r.qry.CreateOffering(ctx, db.CreateOfferingParams{
			SubjectID: subject.ID,
			Type:      typ,
			Term:      r.opts.Term,
			Section:   "",
			Credits:   subject.Credits,
			IsActive:  1,
		})
		if err == nil {
			r.res.Offerings++
		}
	} else if err == nil && !offering.Credits.Valid && subject.Credits.Valid {
		err = r.qry.SetOfferingCreditsIfUnset(ctx, db.SetOfferingCreditsIfUnsetParams{
			Credits: subject.Credits,
			ID:      offering.ID,
		})
		offering.Credits = subject.Credits
	}
	if err != nil {
		return db.Offering{}, err
	}
	r.offerings[key] = offering
	return offering, nil
}

func (r *run) loadRequirements(ctx context.Context, tx *sql.Tx, trees map[string]NormalizedEntry) error {
	keys := make([]string, 0, len(trees))
	for key := range trees {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		entry := trees[key]
		err := entryScope(ctx, tx, func() error {
			return r.loadRequirementEntry(ctx, key, entry)
		})
		if err != nil {
			r.failEntry(ctx, key, err)
		}
	}
	return nil
}

func (r *run) loadRequirementEntry(ctx context.Context, key string, entry NormalizedEntry) error {
	// Synthesized exam variants carry a "::Mode" suffix to keep keys
	// unique; the code lives before it.
	if at := strings.Index(key, "::"); at >= 0 {
		key = key[:at]
	}
	code, _ := SplitSubjectKey(key)
	if code == "" {
		return fmt.Errorf("requirement entry with unusable key %q", key)
	}
	subject, ok, err := r.findSubjectByCode(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		r.res.Warnings++
		r.res.addMissing(code)
		slog.WarnContext(ctx, "requirement tree for unknown subject",
			slog.String("code", code))
		return nil
	}
	if entry.Requirements == nil {
		return nil
	}

	offering, err := r.getOrCreateOffering(ctx, subject, OfferingTypeFromMode(entry.Mode))
	if err != nil {
		return err
	}
	return r.materializeTree(ctx, offering, entry.Requirements)
}

func (r *run) loadPosprevias(ctx context.Context, tx *sql.Tx, pos map[string]PosEntry) error {
	codes := make([]string, 0, len(pos))
	for code := range pos {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, rawCode := range codes {
		entry := pos[rawCode]
		err := entryScope(ctx, tx, func() error {
			return r.loadPospreviasEntry(ctx, rawCode, entry)
		})
		if err != nil {
			r.failEntry(ctx, rawCode, err)
		}
	}
	return nil
}

func (r *run) loadPospreviasEntry(ctx context.Context, rawCode string, entry PosEntry) error {
	prereqCode := bedelias.CanonicalCode(rawCode)
	prereq, ok, err := r.findSubjectByCode(ctx, prereqCode)
	if err != nil {
		return err
	}
	if !ok {
		r.res.Warnings++
		r.res.addMissing(prereqCode)
		slog.WarnContext(ctx, "posprevias listing for unknown subject",
			slog.String("code", prereqCode))
		return nil
	}

	for _, p := range entry.Posprevias {
		targetCode := bedelias.CanonicalCode(p.Codigo)
		target, ok, err := r.findSubjectByCode(ctx, targetCode)
		if err != nil {
			return err
		}
		if !ok {
			r.res.Warnings++
			r.res.addMissing(targetCode)
			slog.WarnContext(ctx, "posprevia references unknown subject",
				slog.String("code", targetCode), slog.String("name", p.Nombre))
			continue
		}

		offering, err := r.getOrCreateOffering(ctx, target, OfferingTypeFromMode(p.Tipo))
		if err != nil {
			return err
		}
		group, err := r.getOrCreatePospreviasGroup(ctx, offering)
		if err != nil {
			return err
		}

		err = r.qry.CreateRequirementItem(ctx, db.CreateRequirementItemParams{
			GroupID:         group.ID,
			TargetType:      TargetSubject,
			TargetSubjectID: sql.NullInt64{Int64: prereq.ID, Valid: true},
			Condition:       ConditionApproved,
			AltCode:         prereq.Code,
			AltLabel:        fmt.Sprintf("%s - %s", prereq.Code, prereq.Name),
		})
		if err != nil {
			return err
		}
		r.res.Items++

		err = r.qry.CreateDependencyEdge(ctx, db.CreateDependencyEdgeParams{
			SubjectID:  prereq.ID,
			OfferingID: offering.ID,
			GroupID:    group.ID,
			Kind:       EdgeAlternativeAny,
			Condition:  ConditionApproved,
		})
		if err != nil {
			return err
		}
		r.res.Edges++
	}
	return nil
}

func (r *run) getOrCreatePospreviasGroup(ctx context.Context, offering db.Offering) (db.RequirementGroup, error) {
	group, err := r.qry.GetGroupByShape(ctx, db.GetGroupByShapeParams{
		OfferingID: offering.ID,
		Scope:      ScopeAny,
		Flavor:     FlavorApprovals,
		Note:       pospreviasNote,
	})
	if err == nil {
		return group, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return db.RequirementGroup{}, err
	}
	group, err = r.qry.CreateRequirementGroup(ctx, db.CreateRequirementGroupParams{
		OfferingID:  offering.ID,
		Scope:       ScopeAny,
		Flavor:      FlavorApprovals,
		MinRequired: sql.NullInt64{Int64: 1, Valid: true},
		Note:        pospreviasNote,
		OrderIndex:  pospreviasOrderIndex,
	})
	if err != nil {
		return db.RequirementGroup{}, err
	}
	r.res.Groups++
	return group, nil
}

func (r *run) loadVigentes(ctx context.Context, tx *sql.Tx, vigentes []VigenteEntry) error {
	for _, v := range vigentes {
		v := v
		err := entryScope(ctx, tx, func() error {
			return r.loadVigenteEntry(ctx, v)
		})
		if err != nil {
			r.failEntry(ctx, v.Codigo, err)
		}
	}
	return nil
}

func (r *run) loadVigenteEntry(ctx context.Context, v VigenteEntry) error {
	code := bedelias.CanonicalCode(v.Codigo)
	subject, ok, err := r.findSubjectByCode(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		r.res.Warnings++
		r.res.addMissing(code)
		slog.WarnContext(ctx, "vigente references unknown subject",
			slog.String("code", code), slog.String("name", v.Nombre))
		return nil
	}

	if err := r.qry.MarkSubjectActive(ctx, subject.ID); err != nil {
		return err
	}
	subject.Active = 1
	r.subjects[subject.Code] = subject

	offering, err := r.getOrCreateOffering(ctx, subject, OfferingCourse)
	if err != nil {
		return err
	}
	if err := r.qry.MarkOfferingActive(ctx, offering.ID); err != nil {
		return err
	}
	r.res.Vigentes++
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
