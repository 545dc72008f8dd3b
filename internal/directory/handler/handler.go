package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"auditdesk/internal/directory/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/httputil"
)

// Service defines the directory operations the handler exposes.
type Service interface {
	Create(ctx context.Context, name, email, phone string, companyID id.CompanyID) (*models.Person, error)
	Get(ctx context.Context, personID id.PersonID) (*models.Person, error)
	Search(ctx context.Context, query string) ([]*models.Person, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the directory endpoints. Mutations are expected to sit
// behind the admin middleware; the caller decides where to mount.
func (h *Handler) Register(r chi.Router) {
	r.Get("/directory/people", h.HandleSearch)
	r.Get("/directory/people/{personID}", h.HandleGet)
}

// RegisterAdmin mounts the write endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/directory/people", h.HandleCreate)
}

// CreatePersonRequest is the body for POST /directory/people.
type CreatePersonRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	CompanyID   string `json:"companyId"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return
	}
	var companyID id.CompanyID
	if req.CompanyID != "" {
		parsed, err := id.ParseCompanyID(req.CompanyID)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		companyID = parsed
	}

	person, err := h.service.Create(ctx, req.Name, req.Email, req.PhoneNumber, companyID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "person create failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, person)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personID, err := id.ParsePersonID(chi.URLParam(r, "personID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	person, err := h.service.Get(ctx, personID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, person)
}

// HandleSearch handles GET /directory/people?q=. It backs the assignment
// autocomplete, so an empty q returning the full directory is intentional.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	people, err := h.service.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.ErrorContext(ctx, "directory search failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, people)
}
