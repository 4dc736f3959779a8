package order

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/events"
	"github.com/appetiteclub/apt/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brewnote/cafepos/internal/event"
	"github.com/brewnote/cafepos/internal/settings"
	"github.com/brewnote/cafepos/internal/tables"
)

const MaxBodyBytes = 1 << 20

type Handler struct {
	orderRepo OrderRepo
	tableRepo tables.TableRepo
	tax       settings.Provider
	publisher events.Publisher
	logger    apt.Logger
	config    *apt.Config
	tlm       *telemetry.HTTP
}

type HandlerDeps struct {
	OrderRepo OrderRepo
	TableRepo tables.TableRepo
	Tax       settings.Provider
	Publisher events.Publisher
}

func NewHandler(hd HandlerDeps, config *apt.Config, logger apt.Logger) *Handler {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	return &Handler{
		orderRepo: hd.OrderRepo,
		tableRepo: hd.TableRepo,
		tax:       hd.Tax,
		publisher: hd.Publisher,
		logger:    logger,
		config:    config,
		tlm:       telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/start", h.StartOrder)
		r.Get("/", h.ListOrders)
		r.Get("/{id}", h.GetOrder)
		r.Put("/{id}", h.UpdateOrder)
		r.Delete("/{id}", h.DeleteOrder)
		r.Post("/{id}/close", h.CloseOrder)
		r.Patch("/{id}/items/{itemID}/promote", h.PromoteItem)
	})

	r.Get("/receipts", h.ListReceipts)
}

// StartOrder opens an order for a table, or hands back the one already bound
// to it. Starting twice without closing returns the same order id both times.
func (h *Handler) StartOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.StartOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	req, ok := h.decodeStartPayload(w, r, log)
	if !ok {
		return
	}

	if req.TableID == uuid.Nil {
		log.Debug("missing table id in start order request")
		apt.RespondError(w, http.StatusBadRequest, "table_id is required")
		return
	}

	table, err := h.tableRepo.Get(ctx, req.TableID)
	if err != nil || table == nil {
		log.Debug("table not found for start", "table_id", req.TableID.String())
		apt.RespondError(w, http.StatusNotFound, "Table not found")
		return
	}

	if table.ActiveOrderID != nil {
		existing, err := h.orderRepo.Get(ctx, *table.ActiveOrderID)
		if err != nil {
			log.Error("error loading active order", "error", err, "order_id", table.ActiveOrderID.String())
			apt.RespondError(w, http.StatusInternalServerError, "Could not load active order")
			return
		}
		if existing != nil && existing.Open() {
			apt.RespondSuccess(w, existing, apt.RESTfulLinksFor(existing)...)
			return
		}
		// Stale reference to a closed or deleted order; fall through and
		// replace it with a fresh one.
	}

	o := NewOrder()
	tableID := table.ID
	o.TableID = &tableID
	o.BeforeCreate()

	if err := h.orderRepo.Create(ctx, o); err != nil {
		log.Error("cannot create order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not create order")
		return
	}

	table.ActiveOrderID = nil
	if err := table.Bind(o.ID); err != nil {
		log.Error("cannot bind table", "error", err, "table_id", table.ID.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not bind table")
		return
	}
	table.BeforeUpdate()
	if err := h.tableRepo.Save(ctx, table); err != nil {
		log.Error("cannot save table binding", "error", err, "table_id", table.ID.String())
		apt.RespondError(w, http.StatusInternalServerError, "Could not bind table")
		return
	}

	h.publishLifecycle(ctx, event.EventOrderStarted, o)

	links := apt.RESTfulLinksFor(o)
	w.WriteHeader(http.StatusCreated)
	apt.RespondSuccess(w, o, links...)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	status := r.URL.Query().Get("status")

	var list []*Order
	var err error
	if status != "" {
		list, err = h.orderRepo.ListByStatus(ctx, status)
	} else {
		list, err = h.orderRepo.List(ctx)
	}
	if err != nil {
		log.Error("error retrieving orders", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}

	apt.RespondCollection(w, list, "order")
}

func (h *Handler) ListReceipts(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListReceipts")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	list, err := h.orderRepo.ListByStatus(ctx, StatusClosed)
	if err != nil {
		log.Error("error retrieving receipts", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not retrieve receipts")
		return
	}

	// Newest first: receipts are browsed backwards from the latest close.
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}

	apt.RespondCollection(w, list, "order")
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.orderRepo.Get(ctx, id)
	if err != nil {
		log.Error("error loading order", "error", err, "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if o == nil {
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	apt.RespondSuccess(w, o, apt.RESTfulLinksFor(o)...)
}

// UpdateOrder replaces the item list wholesale and recomputes every derived
// field. The caller sends the full desired state; there is no per-item patch
// in this path, which keeps a single Save the unit of atomicity.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.orderRepo.Get(ctx, id)
	if err != nil || o == nil {
		log.Debug("order not found for update", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if !o.Open() {
		log.Debug("update rejected", "id", id.String(), "error", ErrOrderClosed)
		apt.RespondError(w, http.StatusConflict, "Order is closed")
		return
	}

	req, ok := h.decodeUpdatePayload(w, r, log)
	if !ok {
		return
	}

	if req.Items != nil {
		if verrs := ValidateItems(req.Items, o.Items); len(verrs) > 0 {
			log.Debug("invalid item list", "errors", len(verrs))
			apt.Respond(w, http.StatusBadRequest, map[string]interface{}{
				"error":  "Invalid item list",
				"fields": verrs,
			}, nil)
			return
		}
		o.ReplaceItems(req.Items)
	}
	if req.CouponCode != nil {
		o.CouponCode = *req.CouponCode
	}
	if req.Discount != nil {
		o.Discount = *req.Discount
	}
	if req.FoodStatus != nil {
		o.FoodStatus = *req.FoodStatus
	}

	o.Recalculate()

	tax, err := h.tax.TaxSettings(ctx)
	if err != nil {
		// Never persist an order whose totals could not be recomputed.
		log.Error("cannot fetch tax settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not recompute totals")
		return
	}
	o.ApplyTotals(tax)
	o.BeforeUpdate()

	if err := h.orderRepo.Save(ctx, o); err != nil {
		log.Error("cannot update order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	h.publishLifecycle(ctx, event.EventOrderUpdated, o)

	apt.RespondSuccess(w, o, apt.RESTfulLinksFor(o)...)
}

// CloseOrder is terminal: totals are recomputed one last time (a tax change
// minutes before close still lands on the receipt), the table is released,
// and the response doubles as the receipt. Closing a closed order returns
// the stored terminal state unchanged.
func (h *Handler) CloseOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CloseOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.orderRepo.Get(ctx, id)
	if err != nil || o == nil {
		log.Debug("order not found for close", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if !o.Open() {
		apt.RespondSuccess(w, o, apt.RESTfulLinksFor(o)...)
		return
	}

	tax, err := h.tax.TaxSettings(ctx)
	if err != nil {
		log.Error("cannot fetch tax settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not recompute totals")
		return
	}
	o.ApplyTotals(tax)
	o.Close()

	if err := h.orderRepo.Save(ctx, o); err != nil {
		log.Error("cannot close order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not close order")
		return
	}

	// Order first, table second. If the unbind fails the order's closed
	// status stays authoritative and a reconciliation sweep can repair the
	// stale table reference.
	if err := h.unbindTable(ctx, o.ID); err != nil {
		log.Error("cannot release table", "error", err, "order_id", o.ID.String())
	}

	h.publishLifecycle(ctx, event.EventOrderClosed, o)

	apt.RespondSuccess(w, o, apt.RESTfulLinksFor(o)...)
}

// PromoteItem advances one unit of a line to ready, splitting multi-qty
// lines so the kitchen can track per-unit progress.
func (h *Handler) PromoteItem(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.PromoteItem")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	itemIDStr := chi.URLParam(r, "itemID")
	itemID, err := uuid.Parse(itemIDStr)
	if err != nil {
		log.Debug("invalid item ID", "itemID", itemIDStr)
		apt.RespondError(w, http.StatusBadRequest, "Invalid item ID")
		return
	}

	o, err := h.orderRepo.Get(ctx, id)
	if err != nil || o == nil {
		log.Debug("order not found for promote", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}
	if !o.Open() {
		apt.RespondError(w, http.StatusConflict, "Order is closed")
		return
	}

	if _, err := o.PromoteUnit(itemID); err != nil {
		var transition *InvalidTransitionError
		switch {
		case errors.Is(err, ErrNotFound):
			apt.RespondError(w, http.StatusNotFound, "Order item not found")
		case errors.As(err, &transition):
			apt.RespondError(w, http.StatusBadRequest, transition.Error())
		default:
			log.Error("cannot promote item", "error", err)
			apt.RespondError(w, http.StatusInternalServerError, "Could not promote item")
		}
		return
	}

	o.Recalculate()

	tax, err := h.tax.TaxSettings(ctx)
	if err != nil {
		log.Error("cannot fetch tax settings", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not recompute totals")
		return
	}
	o.ApplyTotals(tax)
	o.BeforeUpdate()

	if err := h.orderRepo.Save(ctx, o); err != nil {
		log.Error("cannot save promoted item", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not update order")
		return
	}

	h.publishLifecycle(ctx, event.EventOrderUpdated, o)

	apt.RespondSuccess(w, o, apt.RESTfulLinksFor(o)...)
}

// DeleteOrder is the administrative cleanup path, not part of the normal
// lifecycle. An open order releases its table before the record goes away.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrder")
	defer finish()

	log := h.log(r)
	ctx := r.Context()

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	o, err := h.orderRepo.Get(ctx, id)
	if err != nil || o == nil {
		log.Debug("order not found for delete", "id", id.String())
		apt.RespondError(w, http.StatusNotFound, "Order not found")
		return
	}

	if o.Open() {
		if err := h.unbindTable(ctx, o.ID); err != nil {
			log.Error("cannot release table", "error", err, "order_id", o.ID.String())
			apt.RespondError(w, http.StatusInternalServerError, "Could not release table")
			return
		}
	}

	if err := h.orderRepo.Delete(ctx, id); err != nil {
		log.Error("cannot delete order", "error", err)
		apt.RespondError(w, http.StatusInternalServerError, "Could not delete order")
		return
	}

	h.publishLifecycle(ctx, event.EventOrderDeleted, o)

	apt.Respond(w, http.StatusOK, map[string]string{"message": "Deleted"}, nil)
}

// unbindTable locates the table whose stored reference points at the order
// and clears it. Missing binding is fine: takeaway orders never had one.
func (h *Handler) unbindTable(ctx context.Context, orderID uuid.UUID) error {
	table, err := h.tableRepo.FindByActiveOrder(ctx, orderID)
	if err != nil {
		return err
	}
	if table == nil {
		return nil
	}
	table.Unbind()
	return h.tableRepo.Save(ctx, table)
}

func (h *Handler) publishLifecycle(ctx context.Context, eventType string, o *Order) {
	if h.publisher == nil {
		return
	}
	evt := event.OrderLifecycleEvent{
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    o.ID.String(),
		Status:     o.Status,
		ChefStatus: o.ChefStatus,
		FoodStatus: o.FoodStatus,
		ItemCount:  len(o.Items),
		Total:      o.Total,
	}
	if o.TableID != nil {
		evt.TableID = o.TableID.String()
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		h.logger.Error("cannot marshal order lifecycle event", "error", err, "order_id", o.ID.String())
		return
	}
	if err := h.publisher.Publish(ctx, event.OrderLifecycleTopic, payload); err != nil {
		h.logger.Error("cannot publish order lifecycle event", "error", err, "order_id", o.ID.String())
	}
}

// Payload decoders

type OrderStartRequest struct {
	TableID uuid.UUID `json:"table_id"`
}

// Items keeps its empty slice on the wire; an empty replace (clearing the
// last line) must be distinguishable from "no item change" (null).
type OrderUpdateRequest struct {
	Items      []OrderItem `json:"items"`
	CouponCode *string     `json:"coupon_code,omitempty"`
	Discount   *float64    `json:"discount,omitempty"`
	FoodStatus *string     `json:"food_status,omitempty"`
}

func (h *Handler) decodeStartPayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (OrderStartRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return OrderStartRequest{}, false
	}

	var req OrderStartRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return OrderStartRequest{}, false
	}

	return req, true
}

func (h *Handler) decodeUpdatePayload(w http.ResponseWriter, r *http.Request, log apt.Logger) (OrderUpdateRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("failed to read request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Failed to read request body")
		return OrderUpdateRequest{}, false
	}

	var req OrderUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		log.Debug("failed to decode request body", "error", err)
		apt.RespondError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return OrderUpdateRequest{}, false
	}

	return req, true
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

func (h *Handler) log(r *http.Request) apt.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}
