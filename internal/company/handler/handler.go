package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"auditdesk/internal/company/models"
	id "auditdesk/pkg/domain"
	dErrors "auditdesk/pkg/domain-errors"
	"auditdesk/pkg/platform/httputil"
)

// Service defines the company operations the handler exposes.
type Service interface {
	Create(ctx context.Context, name, address, country string) (*models.Company, error)
	Get(ctx context.Context, companyID id.CompanyID) (*models.Company, error)
	List(ctx context.Context) ([]*models.Company, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/companies", h.HandleList)
	r.Get("/companies/{companyID}", h.HandleGet)
}

// RegisterAdmin mounts the write endpoints.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/companies", h.HandleCreate)
}

// CreateCompanyRequest is the body for POST /companies.
type CreateCompanyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Country string `json:"country"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON"))
		return
	}

	company, err := h.service.Create(ctx, req.Name, req.Address, req.Country)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "company create failed", "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, company)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companyID, err := id.ParseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	company, err := h.service.Get(ctx, companyID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	companies, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "company list failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, companies)
}
