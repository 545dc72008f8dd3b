package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"auditdesk/internal/audit/models"
	"auditdesk/internal/audit/rawdoc"
	"auditdesk/internal/audit/schedule"
	"auditdesk/internal/platform/metrics"
	outbox "auditdesk/internal/outbox/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/sentinel"
	"auditdesk/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, audit *models.Audit) error
	FindByID(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	Update(ctx context.Context, audit *models.Audit) error
	Delete(ctx context.Context, auditID id.AuditID) error
	List(ctx context.Context, limit int) ([]*models.Audit, error)
}

// CompanyNames resolves company display names for calendar rows.
type CompanyNames interface {
	Name(ctx context.Context, companyID id.CompanyID) (string, error)
}

// Outbox queues notification emails for asynchronous delivery.
type Outbox interface {
	Enqueue(ctx context.Context, email *outbox.Email) error
}

// People searches the directory for assignment suggestions.
type People interface {
	Search(ctx context.Context, query string) ([]models.PersonRef, error)
}

// Service orchestrates audit lifecycle: draft CRUD, the one-way commit,
// assignment checking, and calendar projection.
type Service struct {
	store     Store
	companies CompanyNames
	outbox    Outbox
	people    People
	weekStart time.Weekday
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithCompanyNames(companies CompanyNames) Option {
	return func(s *Service) {
		s.companies = companies
	}
}

func WithOutbox(ob Outbox) Option {
	return func(s *Service) {
		s.outbox = ob
	}
}

func WithPeople(people People) Option {
	return func(s *Service) {
		s.people = people
	}
}

// WithWeekStart sets the first day of the calendar week.
func WithWeekStart(day time.Weekday) Option {
	return func(s *Service) {
		s.weekStart = day
	}
}

// New constructs a Service. The week starts on Sunday unless configured
// otherwise.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, weekStart: time.Sunday, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a new audit built from a raw document. Drafts may be as
// partial as the caller likes; creating directly onto the schedule has to
// satisfy the same invariants as a commit.
func (s *Service) Create(ctx context.Context, doc rawdoc.Document) (*models.Audit, error) {
	now := requestcontext.Now(ctx)

	audit := models.FromDocument(doc)
	audit.ID = id.NewAuditID()
	audit.CreatedAt = now
	audit.UpdatedAt = now
	if !doc.Has("isDraft") && !doc.Has("isdraft") {
		audit.IsDraft = true
	}

	if !audit.IsDraft {
		audit.IsDraft = true
		if err := s.commitChecks(audit); err != nil {
			return nil, err
		}
		audit.IsDraft = false
	}

	if err := s.store.Create(ctx, audit); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "audit already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create audit")
	}

	s.logger.InfoContext(ctx, "audit created",
		"audit_id", audit.ID, "reference", audit.Reference, "draft", audit.IsDraft)
	if s.metrics != nil {
		s.metrics.AuditsCreated.Inc()
	}
	return audit, nil
}

// Get loads a single audit.
func (s *Service) Get(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	audit, err := s.store.FindByID(ctx, auditID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load audit")
	}
	return audit, nil
}

// List returns audits in creation order, up to limit (0 means all).
func (s *Service) List(ctx context.Context, limit int) ([]*models.Audit, error) {
	audits, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audits")
	}
	return audits, nil
}

// ListDrafts returns draft audits ordered by their reference instant, with
// createdAt standing in for drafts that have no scheduled date yet. Drafts
// whose dates are all absent or unparseable sort by creation time, so every
// draft stays visible in the work queue.
func (s *Service) ListDrafts(ctx context.Context) ([]*models.Audit, error) {
	audits, err := s.store.List(ctx, 0)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audits")
	}
	drafts := make([]*models.Audit, 0)
	for _, a := range audits {
		if a.IsDraft {
			drafts = append(drafts, a)
		}
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		ti, _ := drafts[i].ReferenceInstant(true)
		tj, _ := drafts[j].ReferenceInstant(true)
		return ti.Before(tj)
	})
	return drafts, nil
}

// Update applies a field-replacement patch. Last write wins; there is no
// version check, and concurrent editors overwrite each other silently. A
// patch that flips isDraft to false is treated as a commit and goes through
// the full commit validation.
func (s *Service) Update(ctx context.Context, auditID id.AuditID, patch rawdoc.Document) (*models.Audit, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}

	commitRequested := audit.IsDraft && patchClearsDraft(patch)
	if commitRequested {
		delete(patch, "isDraft")
		delete(patch, "isdraft")
	}

	if err := audit.ApplyPatch(patch); err != nil {
		return nil, err
	}
	audit.UpdatedAt = requestcontext.Now(ctx)

	if commitRequested {
		return s.commit(ctx, audit)
	}

	if err := s.store.Update(ctx, audit); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update audit")
	}
	return audit, nil
}

// Commit moves a draft onto the schedule. The transition is one-way: the
// required fields must be present, the role invariants must hold, and once
// committed the audit never reverts to draft.
func (s *Service) Commit(ctx context.Context, auditID id.AuditID) (*models.Audit, error) {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, audit)
}

func (s *Service) commit(ctx context.Context, audit *models.Audit) (*models.Audit, error) {
	if err := s.commitChecks(audit); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	audit.ApplyCommit(now)
	s.queueRequestLetter(ctx, audit, now)

	if err := s.store.Update(ctx, audit); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit audit")
	}

	s.logger.InfoContext(ctx, "audit committed",
		"audit_id", audit.ID, "reference", audit.Reference)
	if s.metrics != nil {
		s.metrics.AuditsCommitted.Inc()
	}
	return audit, nil
}

func (s *Service) commitChecks(audit *models.Audit) error {
	if err := audit.CanCommit(); err != nil {
		return err
	}
	return schedule.ValidateAssignment(schedule.Assignment{
		Auditees:        audit.Auditees,
		LeadAuditor:     audit.LeadAuditor,
		SupportAuditors: audit.SupportAuditors,
	})
}

// queueRequestLetter enqueues the request-letter notification for every
// auditee with a contact address and stamps the milestone. Outbox failures
// do not roll back the commit; the letter can be resent by hand.
func (s *Service) queueRequestLetter(ctx context.Context, audit *models.Audit, now time.Time) {
	if s.outbox == nil {
		return
	}
	queued := false
	for _, auditee := range audit.Auditees {
		if auditee.ContactEmail == "" {
			continue
		}
		email := outbox.NewEmail(
			auditee.ContactEmail,
			fmt.Sprintf("Audit request letter: %s", audit.Reference),
			fmt.Sprintf("Audit %s has been scheduled. Lead auditor: %s.", audit.Reference, audit.LeadAuditor.Name),
			outbox.TypeRequestLetter,
			now,
		)
		email.DedupeKey = fmt.Sprintf("request-letter:%s:%s", audit.ID, auditee.ContactEmail)
		if err := s.outbox.Enqueue(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "failed to queue request letter",
				"audit_id", audit.ID, "to", auditee.ContactEmail, "error", err)
			continue
		}
		queued = true
		if s.metrics != nil {
			s.metrics.EmailsQueued.Inc()
		}
	}
	if queued {
		audit.RequestLetterSentAt = &now
	}
}

// Delete removes a draft. Committed audits are part of the record and are
// never deleted through the API.
func (s *Service) Delete(ctx context.Context, auditID id.AuditID) error {
	audit, err := s.Get(ctx, auditID)
	if err != nil {
		return err
	}
	if err := audit.CanDelete(); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, auditID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "audit not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete audit")
	}
	s.logger.InfoContext(ctx, "draft deleted", "audit_id", auditID)
	if s.metrics != nil {
		s.metrics.AuditsDeleted.Inc()
	}
	return nil
}

// CheckAssignment answers "would placing this person here double-book a
// role". It only ever informs; saving the field is allowed regardless.
func (s *Service) CheckAssignment(ctx context.Context, candidate models.PersonRef, slot schedule.Slot, state schedule.Assignment) schedule.Conflict {
	conflict := schedule.CheckAssignment(candidate, slot, state)
	if conflict.Conflict {
		s.logger.DebugContext(ctx, "role conflict reported",
			"role", slot.Role, "reason", conflict.Reason)
		if s.metrics != nil {
			s.metrics.RoleConflicts.Inc()
		}
	}
	return conflict
}

// Suggestions searches the directory for people who could fill the slot,
// dropping anyone whose name already occupies another slot on the same
// audit. The slot's own occupant stays suggestible.
func (s *Service) Suggestions(ctx context.Context, query string, slot schedule.Slot, state schedule.Assignment) ([]models.PersonRef, error) {
	if s.people == nil {
		return []models.PersonRef{}, nil
	}
	refs, err := s.people.Search(ctx, query)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search directory")
	}

	taken := schedule.TakenNames(state, slot)
	out := make([]models.PersonRef, 0, len(refs))
	for _, ref := range refs {
		if _, occupied := taken[schedule.NormalizeName(ref.Name)]; occupied {
			continue
		}
		out = append(out, ref)
	}
	return out, nil
}

// WeekAgenda projects committed audits onto the week containing anchor.
// Drafts never appear; audits with no usable date are excluded rather than
// pinned to a default day.
func (s *Service) WeekAgenda(ctx context.Context, anchor time.Time) (schedule.WeekView, error) {
	audits, err := s.store.List(ctx, 0)
	if err != nil {
		return schedule.WeekView{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audits")
	}

	rows := make([]schedule.CalendarAudit, 0)
	for _, a := range audits {
		if a.IsDraft {
			continue
		}
		instant, ok := a.ReferenceInstant(false)
		if !ok {
			continue
		}
		rows = append(rows, schedule.CalendarAudit{
			ID:              a.ID.String(),
			Reference:       a.Reference,
			Instant:         instant,
			CompanyName:     s.companyName(ctx, a.CompanyID),
			LeadAuditorName: a.LeadAuditor.Name,
		})
	}
	return schedule.ProjectWeek(rows, anchor, s.weekStart), nil
}

// companyName is best-effort: a calendar row with a blank company label is
// still a calendar row.
func (s *Service) companyName(ctx context.Context, companyID id.CompanyID) string {
	if s.companies == nil || companyID.IsNil() {
		return ""
	}
	name, err := s.companies.Name(ctx, companyID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to resolve company name",
			"company_id", companyID, "error", err)
		return ""
	}
	return name
}

func patchClearsDraft(patch rawdoc.Document) bool {
	if v, ok := patch.Bool("isDraft"); ok {
		return !v
	}
	if v, ok := patch.Bool("isdraft"); ok {
		return !v
	}
	return false
}
