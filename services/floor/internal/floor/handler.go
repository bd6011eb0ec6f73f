package floor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/telemetry"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Handler exposes the floor store over HTTP.
type Handler struct {
	store  *Store
	logger aqm.Logger
	config *aqm.Config
	tlm    *telemetry.HTTP
}

func NewHandler(store *Store, config *aqm.Config, logger aqm.Logger) *Handler {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Handler{
		store:  store,
		logger: logger,
		config: config,
		tlm:    telemetry.NewHTTP(),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", h.ListTables)
		r.Post("/", h.CreateTable)
		r.Patch("/{id}", h.UpdateTable)
		r.Delete("/{id}", h.DeleteTable)
		r.Post("/{id}/book", h.BookTable)
		r.Post("/{id}/occupy", h.OccupyTable)
		r.Post("/{id}/free", h.FreeTable)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.ListOrders)
		r.Post("/", h.CreateOrder)
		r.Patch("/{id}/status", h.UpdateOrderStatus)
		r.Put("/{id}/items", h.UpdateOrderItems)
		r.Post("/{id}/payment", h.CompletePayment)
		r.Delete("/{id}", h.DeleteOrder)
	})

	r.Get("/dishes", h.ListDishes)
	r.Post("/dishes", h.CreateDish)
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)

	r.Get("/earnings", h.ListEarnings)
	r.Post("/earnings/backfill", h.BackfillEarnings)

	r.Get("/stats", h.GetStats)
	r.Get("/performance", h.GetPerformance)
	r.Post("/refresh", h.Refresh)
}

// Tables

// ListTables handles GET /tables, optionally filtered by ?status=
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListTables")
	defer finish()

	status := TableStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	aqm.RespondCollection(w, h.store.TablesByStatus(status), "tables")
}

// CreateTable handles POST /tables
func (h *Handler) CreateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateTable")
	defer finish()
	log := h.log(r)

	spec, ok := h.decodeTableSpec(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.AddTable(r.Context(), spec)
	if err != nil {
		h.respondCommandError(w, log, "cannot create table", err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, table, links...)
}

// UpdateTable handles PATCH /tables/{id}
func (h *Handler) UpdateTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateTable")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	patch, ok := h.decodeTablePatch(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.UpdateTable(r.Context(), id, patch)
	if err != nil {
		h.respondCommandError(w, log, "cannot update table", err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	aqm.RespondSuccess(w, table, links...)
}

// DeleteTable handles DELETE /tables/{id}
func (h *Handler) DeleteTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteTable")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.store.DeleteTable(r.Context(), id); err != nil {
		h.respondCommandError(w, log, "cannot delete table", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BookTable handles POST /tables/{id}/book
func (h *Handler) BookTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BookTable")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	req, ok := h.decodeBookRequest(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.BookTable(r.Context(), id, req.Customer, req.ReservationTime)
	if err != nil {
		h.respondCommandError(w, log, "cannot book table", err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	aqm.RespondSuccess(w, table, links...)
}

// OccupyTable handles POST /tables/{id}/occupy
func (h *Handler) OccupyTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.OccupyTable")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.OccupyTable(r.Context(), id)
	if err != nil {
		h.respondCommandError(w, log, "cannot occupy table", err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	aqm.RespondSuccess(w, table, links...)
}

// FreeTable handles POST /tables/{id}/free
func (h *Handler) FreeTable(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.FreeTable")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	table, err := h.store.FreeTable(r.Context(), id)
	if err != nil {
		h.respondCommandError(w, log, "cannot free table", err)
		return
	}

	links := aqm.RESTfulLinksFor(table)
	aqm.RespondSuccess(w, table, links...)
}

// Orders

// ListOrders handles GET /orders, optionally filtered by ?status=
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListOrders")
	defer finish()

	status := OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		aqm.RespondError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	aqm.RespondCollection(w, h.store.OrdersByStatus(status), "orders")
}

// CreateOrder handles POST /orders. A request merged into an existing order
// answers 200 instead of 201.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateOrder")
	defer finish()
	log := h.log(r)

	req, ok := h.decodeOrderRequest(w, r, log)
	if !ok {
		return
	}

	order, action, err := h.store.AddOrder(r.Context(), req)
	if err != nil {
		h.respondCommandError(w, log, "cannot place order", err)
		return
	}

	log.Debug("order placed", "order_id", order.ID.String(), "action", string(action))

	links := aqm.RESTfulLinksFor(order)
	if action == ActionCreate {
		w.WriteHeader(http.StatusCreated)
	}
	aqm.RespondSuccess(w, order, links...)
}

// UpdateOrderStatus handles PATCH /orders/{id}/status
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderStatus")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	status, ok := h.decodeStatusRequest(w, r, log)
	if !ok {
		return
	}

	order, err := h.store.UpdateOrderStatus(r.Context(), id, status)
	if err != nil {
		h.respondCommandError(w, log, "cannot update order status", err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

// UpdateOrderItems handles PUT /orders/{id}/items
func (h *Handler) UpdateOrderItems(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.UpdateOrderItems")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	items, ok := h.decodeItemsRequest(w, r, log)
	if !ok {
		return
	}

	order, err := h.store.UpdateOrderItems(r.Context(), id, items)
	if err != nil {
		h.respondCommandError(w, log, "cannot update order items", err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

// CompletePayment handles POST /orders/{id}/payment
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CompletePayment")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	order, err := h.store.CompleteOrderPayment(r.Context(), id)
	if err != nil {
		h.respondCommandError(w, log, "cannot complete payment", err)
		return
	}

	links := aqm.RESTfulLinksFor(order)
	aqm.RespondSuccess(w, order, links...)
}

// DeleteOrder handles DELETE /orders/{id}
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.DeleteOrder")
	defer finish()
	log := h.log(r)

	id, ok := h.parseIDParam(w, r, log)
	if !ok {
		return
	}

	if err := h.store.DeleteOrder(r.Context(), id); err != nil {
		h.respondCommandError(w, log, "cannot delete order", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Menu and customers

// ListDishes handles GET /dishes, optionally filtered by ?category=
func (h *Handler) ListDishes(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListDishes")
	defer finish()

	aqm.RespondCollection(w, h.store.DishesByCategory(r.URL.Query().Get("category")), "dishes")
}

func (h *Handler) CreateDish(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateDish")
	defer finish()
	log := h.log(r)

	spec, ok := h.decodeDishSpec(w, r, log)
	if !ok {
		return
	}

	dish, err := h.store.AddDish(r.Context(), spec)
	if err != nil {
		h.respondCommandError(w, log, "cannot create dish", err)
		return
	}

	links := aqm.RESTfulLinksFor(dish)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, dish, links...)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCategories")
	defer finish()

	aqm.RespondCollection(w, h.store.Categories(), "categories")
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCategory")
	defer finish()
	log := h.log(r)

	spec, ok := h.decodeCategorySpec(w, r, log)
	if !ok {
		return
	}

	category, err := h.store.AddCategory(r.Context(), spec)
	if err != nil {
		h.respondCommandError(w, log, "cannot create category", err)
		return
	}

	links := aqm.RESTfulLinksFor(category)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, category, links...)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListCustomers")
	defer finish()

	aqm.RespondCollection(w, h.store.Customers(), "customers")
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.CreateCustomer")
	defer finish()
	log := h.log(r)

	spec, ok := h.decodeCustomerSpec(w, r, log)
	if !ok {
		return
	}

	customer, err := h.store.AddCustomer(r.Context(), spec)
	if err != nil {
		h.respondCommandError(w, log, "cannot create customer", err)
		return
	}

	links := aqm.RESTfulLinksFor(customer)
	w.WriteHeader(http.StatusCreated)
	aqm.RespondSuccess(w, customer, links...)
}

// Earnings and reporting

func (h *Handler) ListEarnings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.ListEarnings")
	defer finish()

	aqm.RespondCollection(w, h.store.Earnings(), "earnings")
}

// BackfillEarnings handles POST /earnings/backfill?dry_run=true
func (h *Handler) BackfillEarnings(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.BackfillEarnings")
	defer finish()
	log := h.log(r)

	dryRun := false
	if raw := r.URL.Query().Get("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			aqm.RespondError(w, http.StatusBadRequest, "Invalid dry_run parameter")
			return
		}
		dryRun = v
	}

	report, err := h.store.BackfillEarnings(r.Context(), dryRun)
	if err != nil {
		h.respondCommandError(w, log, "cannot backfill earnings", err)
		return
	}

	aqm.RespondSuccess(w, report)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetStats")
	defer finish()

	aqm.RespondSuccess(w, h.store.Stats())
}

func (h *Handler) GetPerformance(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.GetPerformance")
	defer finish()

	aqm.RespondSuccess(w, h.store.Performance())
}

// Refresh handles POST /refresh and answers with the new snapshot.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	w, r, finish := h.tlm.Start(w, r, "Handler.Refresh")
	defer finish()
	log := h.log(r)

	if err := h.store.Refresh(r.Context()); err != nil {
		h.respondCommandError(w, log, "cannot refresh snapshot", err)
		return
	}

	aqm.RespondSuccess(w, h.store.Snapshot())
}

// Helper methods

func (h *Handler) log(r *http.Request) aqm.Logger {
	return h.logger.With("request_id", r.Context().Value("request_id"))
}

func (h *Handler) parseIDParam(w http.ResponseWriter, r *http.Request, log aqm.Logger) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		log.Debug("missing id parameter")
		aqm.RespondError(w, http.StatusBadRequest, "Missing id parameter")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		log.Debug("invalid id parameter", "id", idStr, "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid id parameter")
		return uuid.Nil, false
	}

	return id, true
}

// respondCommandError maps store errors to status codes: validation 400,
// missing references 404, gateway failures 502.
func (h *Handler) respondCommandError(w http.ResponseWriter, log aqm.Logger, msg string, err error) {
	var verr *ValidationError
	var nerr *NotFoundError
	var rerr *RemoteError

	switch {
	case errors.As(err, &verr):
		log.Debug(msg, "error", err)
		h.respondValidationErrors(w, verr.Reasons)
	case errors.As(err, &rerr):
		log.Error(msg, "error", err, "partial", rerr.Partial)
		if rerr.Partial {
			aqm.RespondError(w, http.StatusBadGateway, "Change partially applied, refresh to see the current state")
			return
		}
		aqm.RespondError(w, http.StatusBadGateway, "Record store unavailable")
	case errors.As(err, &nerr):
		log.Debug(msg, "error", err)
		aqm.RespondError(w, http.StatusNotFound, nerr.Error())
	default:
		log.Error(msg, "error", err)
		aqm.RespondError(w, http.StatusInternalServerError, "Internal error")
	}
}

func (h *Handler) respondValidationErrors(w http.ResponseWriter, reasons []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":  "Validation failed",
		"errors": reasons,
	})
}
