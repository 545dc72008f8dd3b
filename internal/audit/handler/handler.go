package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"auditdesk/internal/audit/models"
	"auditdesk/internal/audit/rawdoc"
	"auditdesk/internal/audit/schedule"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/httputil"
	"auditdesk/pkg/requestcontext"
)

// Service defines the audit operations the handler exposes.
type Service interface {
	Create(ctx context.Context, doc rawdoc.Document) (*models.Audit, error)
	Get(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	List(ctx context.Context, limit int) ([]*models.Audit, error)
	ListDrafts(ctx context.Context) ([]*models.Audit, error)
	Update(ctx context.Context, auditID id.AuditID, patch rawdoc.Document) (*models.Audit, error)
	Commit(ctx context.Context, auditID id.AuditID) (*models.Audit, error)
	Delete(ctx context.Context, auditID id.AuditID) error
	CheckAssignment(ctx context.Context, candidate models.PersonRef, slot schedule.Slot, state schedule.Assignment) schedule.Conflict
	Suggestions(ctx context.Context, query string, slot schedule.Slot, state schedule.Assignment) ([]models.PersonRef, error)
	WeekAgenda(ctx context.Context, anchor time.Time) (schedule.WeekView, error)
}

// Handler wires audit endpoints to the audit service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the audit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/audits", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/drafts", h.HandleListDrafts)
		r.Route("/{auditID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Patch("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.Post("/commit", h.HandleCommit)
		})
	})
	r.Post("/assignments/check", h.HandleCheckAssignment)
	r.Post("/assignments/suggestions", h.HandleSuggestions)
	r.Get("/calendar/week", h.HandleWeekAgenda)
}

// HandleCreate handles POST /audits. The body is the raw audit document;
// legacy shapes (wrapped dates, lowercased draft flag) are accepted.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	doc, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}

	audit, err := h.service.Create(ctx, doc)
	if err != nil {
		h.logError(ctx, "audit create failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, audit.Document())
}

// HandleList handles GET /audits. An optional limit query caps the result.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	audits, err := h.service.List(ctx, limit)
	if err != nil {
		h.logError(ctx, "audit list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, documents(audits))
}

// HandleListDrafts handles GET /audits/drafts.
func (h *Handler) HandleListDrafts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	drafts, err := h.service.ListDrafts(ctx)
	if err != nil {
		h.logError(ctx, "draft list failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, documents(drafts))
}

// HandleGet handles GET /audits/{auditID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	audit, err := h.service.Get(ctx, auditID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, audit.Document())
}

// HandleUpdate handles PATCH /audits/{auditID}. Fields present in the body
// replace the stored values; absent fields are untouched.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	patch, ok := h.decodeDocument(w, r)
	if !ok {
		return
	}

	audit, err := h.service.Update(ctx, auditID, patch)
	if err != nil {
		h.logError(ctx, "audit update failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, audit.Document())
}

// HandleDelete handles DELETE /audits/{auditID}. Drafts only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, auditID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

// HandleCommit handles POST /audits/{auditID}/commit.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	auditID, ok := h.pathID(w, r)
	if !ok {
		return
	}
	audit, err := h.service.Commit(ctx, auditID)
	if err != nil {
		h.logError(ctx, "audit commit failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, audit.Document())
}

// CheckAssignmentRequest is the body for POST /assignments/check.
type CheckAssignmentRequest struct {
	Candidate models.PersonRef `json:"candidate"`
	Slot      struct {
		Role  schedule.Role `json:"role"`
		Index int           `json:"index"`
	} `json:"slot"`
	Assignment struct {
		Auditees        []models.PersonRef `json:"auditees"`
		LeadAuditor     models.PersonRef   `json:"leadAuditor"`
		SupportAuditors []models.PersonRef `json:"supportAuditors"`
	} `json:"assignment"`
}

// HandleCheckAssignment handles POST /assignments/check. The response never
// carries an error status for a conflict: a conflict is an answer, not a
// failure.
func (h *Handler) HandleCheckAssignment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return
	}
	switch req.Slot.Role {
	case schedule.RoleAuditee, schedule.RoleLeadAuditor, schedule.RoleSupportAuditor:
	default:
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "unknown slot role"))
		return
	}

	conflict := h.service.CheckAssignment(ctx, req.Candidate,
		schedule.Slot{Role: req.Slot.Role, Index: req.Slot.Index},
		schedule.Assignment{
			Auditees:        req.Assignment.Auditees,
			LeadAuditor:     req.Assignment.LeadAuditor,
			SupportAuditors: req.Assignment.SupportAuditors,
		})
	httputil.WriteJSON(w, http.StatusOK, conflict)
}

// SuggestionsRequest is the body for POST /assignments/suggestions.
type SuggestionsRequest struct {
	Query string `json:"query"`
	Slot  struct {
		Role  schedule.Role `json:"role"`
		Index int           `json:"index"`
	} `json:"slot"`
	Assignment struct {
		Auditees        []models.PersonRef `json:"auditees"`
		LeadAuditor     models.PersonRef   `json:"leadAuditor"`
		SupportAuditors []models.PersonRef `json:"supportAuditors"`
	} `json:"assignment"`
}

// HandleSuggestions handles POST /assignments/suggestions: directory search
// filtered to people not already holding another slot on the audit.
func (h *Handler) HandleSuggestions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SuggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return
	}

	people, err := h.service.Suggestions(ctx, req.Query,
		schedule.Slot{Role: req.Slot.Role, Index: req.Slot.Index},
		schedule.Assignment{
			Auditees:        req.Assignment.Auditees,
			LeadAuditor:     req.Assignment.LeadAuditor,
			SupportAuditors: req.Assignment.SupportAuditors,
		})
	if err != nil {
		h.logError(ctx, "assignment suggestions failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, people)
}

// HandleWeekAgenda handles GET /calendar/week. The anchor query names any
// instant inside the wanted week; it defaults to now. Clients page between
// weeks by shifting the anchor seven days.
func (h *Handler) HandleWeekAgenda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	anchor := requestcontext.Now(ctx)
	if raw := r.URL.Query().Get("anchor"); raw != "" {
		parsed, err := parseAnchor(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "anchor must be an RFC 3339 timestamp or a calendar date"))
			return
		}
		anchor = parsed
	}

	view, err := h.service.WeekAgenda(ctx, anchor)
	if err != nil {
		h.logError(ctx, "week agenda failed", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (id.AuditID, bool) {
	auditID, err := id.ParseAuditID(chi.URLParam(r, "auditID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.AuditID{}, false
	}
	return auditID, true
}

func (h *Handler) decodeDocument(w http.ResponseWriter, r *http.Request) (rawdoc.Document, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read request body"))
		return nil, false
	}
	doc, err := rawdoc.Decode(body)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not a JSON object"))
		return nil, false
	}
	return doc, true
}

func (h *Handler) logError(ctx context.Context, msg string, err error) {
	if dErrors.CodeOf(err) != dErrors.CodeInternal {
		return
	}
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx), "error", err)
}

func documents(audits []*models.Audit) []rawdoc.Document {
	docs := make([]rawdoc.Document, 0, len(audits))
	for _, a := range audits {
		docs = append(docs, a.Document())
	}
	return docs
}

func parseAnchor(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
