package tables

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	tableRepo TableRepo
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

func NewHandler(tableRepo TableRepo, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		tableRepo: tableRepo,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Post("/", h.CreateTable)
		r.Get("/", h.ListTables)
		r.Get("/{id}", h.GetTable)
		r.Delete("/{id}", h.DeleteTable)
	})
}

type TableCreateRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeCreatePayload(w, r, log)
	if !ok {
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		apt.RespondError(w, http.StatusBadRequest, "name is required")
		return
	}

	table := NewTable(name)
	table.BeforeCreate()

	if err := h.tableRepo.Create(ctx, table); err != nil {
		log.Error("cannot create table", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create table")
		return
	}

	links := apt.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, table, links...)
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	list, err := h.tableRepo.List(ctx)
	if err != nil {
		log.Error("error retrieving tables", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve tables")
		return
	}

	apt.RespondCollection(w, list, "table")
}

func (h *Handler) GetTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.tableRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading table", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}
	if table == nil {
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	apt.RespondSuccess(w, table, apt.RESTfulLinksFor(table)...)
}

func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.tableRepo.Get(ctx, id)
	if err != nil || table == nil {
		log.Debug("table not found for delete", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	if table.Occupied() {
		apt.RespondError(w, http.StatusConflict, "Table has an open order")
		return
	}

	if err := h.tableRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete table", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete table")
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

func (h *Handler) decodeCreatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (TableCreateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return TableCreateRequest{}, false
	}

	var req TableCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return TableCreateRequest{}, false
	}

	return req, true
}

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
