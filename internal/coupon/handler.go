package coupon

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo   CouponRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo CouponRepo, config *apt.Config, logger apt.Logger) *Handler {
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
	r.Route("/coupons", func(r chi.Router) {
		r.Post("/", h.CreateCoupon)
		r.Get("/", h.ListCoupons)
		r.Delete("/{code}", h.DeleteCoupon)
	})
}

type CouponCreateRequest struct {
	Code   string  `json:"code"`
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Active *bool   `json:"active,omitempty"`
}

func (h *Handler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCoupon")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeCreatePayload(w, r, log)
	if !ok {
		return
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		apt.RespondError(w, http.StatusBadRequest, "code is required")
		return
	}
	if req.Type != "" && req.Type != TypePercent && req.Type != TypeFlat {
		apt.RespondError(w, http.StatusBadRequest, "type must be percent or flat")
		return
	}
	if req.Value < 0 {
		apt.RespondError(w, http.StatusBadRequest, "value cannot be negative")
		return
	}

	c := NewCoupon(code)
	if req.Type != "" {
		c.Type = req.Type
	}
	c.Value = req.Value
	if req.Active != nil {
		c.Active = *req.Active
	}
	c.BeforeCreate()

	if err := h.repo.Create(ctx, c); err != nil {
		log.Error("cannot create coupon", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create coupon")
		return
	}

	links := apt.RESTfulLinksFor(c)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, c, links...)
}

func (h *Handler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCoupons")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	list, err := h.repo.List(ctx)
	if err != nil {
		log.Error("error retrieving coupons", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve coupons")
		return
	}

	apt.RespondCollection(w, list, "coupon")
}

func (h *Handler) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteCoupon")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	code := chi.URLParam(r, "code")
	if code == "" {
		apt.RespondError(w, http.StatusBadRequest, "Missing code parameter")
		return
	}

	if err := h.repo.DeleteByCode(ctx, code); err != nil {
		log.Error("cannot delete coupon", "error", err, "code", code)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete coupon")
		return
	}

	apt.Respond(w, http.StatusOK, map[string]string{"message": "Deleted"}, nil)
}

func (h *Handler) decodeCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (CouponCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return CouponCreateRequest{}, false
	}

	var req CouponCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return CouponCreateRequest{}, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
