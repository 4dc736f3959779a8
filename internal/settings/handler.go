package settings

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo   Repo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo Repo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		repo:   repo,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.GetSettings)
		r.Put("/", h.UpdateSettings)
	})
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetSettings")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	s, err := h.repo.Current(ctx)
	if err != nil {
		log.Error("cannot load settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve settings")
		return
	}

	apt.RespondSuccess(w, s, apt.RESTfulLinksFor(s)...)
}

type SettingsUpdateRequest struct {
	AutoSubmitToChef *bool    `json:"auto_submit_to_chef,omitempty"`
	SiteClosed       *bool    `json:"site_closed,omitempty"`
	TaxEnabled       *bool    `json:"tax_enabled,omitempty"`
	TaxRate          *float64 `json:"tax_rate,omitempty"`
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateSettings")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeUpdatePayload(w, r, log)
	if !ok {
		return
	}

	s, err := h.repo.Current(ctx)
	if err != nil {
		log.Error("cannot load settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve settings")
		return
	}

	if req.AutoSubmitToChef != nil {
		s.AutoSubmitToChef = *req.AutoSubmitToChef
	}
	if req.SiteClosed != nil {
		s.SiteClosed = *req.SiteClosed
	}
	if req.TaxEnabled != nil {
		s.TaxEnabled = *req.TaxEnabled
	}
	if req.TaxRate != nil {
		s.TaxRate = *req.TaxRate
	}
	s.ClampTaxRate()
	s.BeforeUpdate()

	if err := h.repo.Save(ctx, s); err != nil {
		log.Error("cannot update settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update settings")
		return
	}

	apt.RespondSuccess(w, s, apt.RESTfulLinksFor(s)...)
}

func (h *Handler) decodeUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (SettingsUpdateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return SettingsUpdateRequest{}, false
	}

	var req SettingsUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return SettingsUpdateRequest{}, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
