package menu

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	repo   MenuItemRepo
	logger apt.Logger
	config *apt.Config
	tlm    *telemetry.HTTP
}

func NewHandler(repo MenuItemRepo, config *apt.Config, logger apt.Logger) *Handler {
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
	r.Route("/menu", func(r chi.Router) {
		r.Post("/", h.CreateMenuItem)
		r.Get("/", h.ListMenuItems)
		r.Get("/{id}", h.GetMenuItem)
		r.Put("/{id}", h.UpdateMenuItem)
		r.Delete("/{id}", h.DeleteMenuItem)
	})
}

type MenuItemPayload struct {
	Category    string  `json:"category"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Featured    bool    `json:"featured"`
}

func (h *Handler) CreateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodePayload(w, r, log)
	if !ok {
		return
	}

	item := NewMenuItem()
	item.Category = req.Category
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Featured = req.Featured

	if verrs := ValidateMenuItem(item); len(verrs) > 0 {
		apt.Respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Invalid menu item",
			"fields": verrs,
		}, nil)
		return
	}

	item.BeforeCreate()

	if err := h.repo.Create(ctx, item); err != nil {
		log.Error("cannot create menu item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create menu item")
		return
	}

	links := apt.RESTfulLinksFor(item)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, item, links...)
}

func (h *Handler) ListMenuItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListMenuItems")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	items, err := h.repo.List(ctx)
	if err != nil {
		log.Error("error retrieving menu", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve menu")
		return
	}

	apt.RespondCollection(w, items, "menu-item")
}

func (h *Handler) GetMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil || item == nil {
		log.Debug("menu item not found", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	apt.RespondSuccess(w, item, apt.RESTfulLinksFor(item)...)
}

func (h *Handler) UpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	item, err := h.repo.Get(ctx, id)
	if err != nil || item == nil {
		log.Debug("menu item not found for update", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Menu item not found")
		return
	}

	req, ok := h.decodePayload(w, r, log)
	if !ok {
		return
	}

	item.Category = req.Category
	item.Name = req.Name
	item.Description = req.Description
	item.Price = req.Price
	item.Featured = req.Featured

	if verrs := ValidateMenuItem(item); len(verrs) > 0 {
		apt.Respond(w, http.StatusBadRequest, map[string]interface{}{
			"error":  "Invalid menu item",
			"fields": verrs,
		}, nil)
		return
	}

	// Open orders are untouched here: their lines carry name/price
	// snapshots taken at add time.
	item.BeforeUpdate()

	if err := h.repo.Save(ctx, item); err != nil {
		log.Error("cannot update menu item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update menu item")
		return
	}

	apt.RespondSuccess(w, item, apt.RESTfulLinksFor(item)...)
}

func (h *Handler) DeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteMenuItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.repo.Delete(ctx, id); err != nil {
		log.Error("cannot delete menu item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete menu item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log apt.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		apt.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

func (h *Handler) decodePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (MenuItemPayload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return MenuItemPayload{}, false
	}

	var req MenuItemPayload
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return MenuItemPayload{}, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
