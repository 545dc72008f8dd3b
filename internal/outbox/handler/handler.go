package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"auditdesk/internal/outbox/store"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/httputil"
	"auditdesk/pkg/platform/sentinel"
)

// Handler exposes the outbox to operators: inspecting the queue and
// recording delivery receipts reported back by the email relay.
type Handler struct {
	store  store.Store
	logger *slog.Logger
}

func New(s store.Store, logger *slog.Logger) *Handler {
	return &Handler{store: s, logger: logger}
}

// RegisterAdmin mounts the outbox endpoints; all of them are operator-only.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/outbox/emails", h.HandleListQueued)
	r.Post("/outbox/emails/{emailID}/delivered", h.HandleMarkDelivered)
}

// HandleListQueued handles GET /outbox/emails: the queued backlog, oldest
// first.
func (h *Handler) HandleListQueued(w http.ResponseWriter, r *http.Request) {
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

	emails, err := h.store.ListQueued(ctx, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "outbox list failed", "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list outbox"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, emails)
}

// HandleMarkDelivered handles POST /outbox/emails/{emailID}/delivered. The
// relay confirms actual delivery out of band; this records its receipt.
func (h *Handler) HandleMarkDelivered(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	emailID, err := id.ParseEmailID(chi.URLParam(r, "emailID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.store.MarkDelivered(ctx, emailID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "email not found"))
			return
		}
		h.logger.ErrorContext(ctx, "mark delivered failed", "email_id", emailID, "error", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark email delivered"))
		return
	}
	httputil.WriteNoContent(w)
}
