package floor

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/aquamarinepk/aqm"
)

const MaxBodyBytes = 1 << 20 // 1 MB

type tablePatchRequest struct {
	Number          *int         `json:"number,omitempty"`
	Seats           *int         `json:"seats,omitempty"`
	Status          *TableStatus `json:"status,omitempty"`
	Customer        *string      `json:"customer,omitempty"`
	ReservationTime *time.Time   `json:"reservation_time,omitempty"`
}

func (r tablePatchRequest) toPatch() TablePatch {
	return TablePatch{
		Number:          r.Number,
		Seats:           r.Seats,
		Status:          r.Status,
		Customer:        r.Customer,
		ReservationTime: r.ReservationTime,
	}
}

type bookTableRequest struct {
	Customer        string    `json:"customer"`
	ReservationTime time.Time `json:"reservation_time"`
}

type orderStatusRequest struct {
	Status OrderStatus `json:"status"`
}

type orderItemsRequest struct {
	Items []ItemRequest `json:"items"`
}

// decodeJSON reads a bounded body into dst, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, log aqm.Logger, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	defer r.Body.Close()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Debug("error reading request body", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Could not read request body")
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		log.Debug("error decoding JSON", "error", err)
		aqm.RespondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return false
	}

	return true
}

func (h *Handler) decodeTableSpec(w http.ResponseWriter, r *http.Request, log aqm.Logger) (TableSpec, bool) {
	var spec TableSpec
	ok := decodeJSON(w, r, log, &spec)
	return spec, ok
}

func (h *Handler) decodeTablePatch(w http.ResponseWriter, r *http.Request, log aqm.Logger) (TablePatch, bool) {
	var req tablePatchRequest
	if !decodeJSON(w, r, log, &req) {
		return TablePatch{}, false
	}
	return req.toPatch(), true
}

func (h *Handler) decodeBookRequest(w http.ResponseWriter, r *http.Request, log aqm.Logger) (bookTableRequest, bool) {
	var req bookTableRequest
	ok := decodeJSON(w, r, log, &req)
	return req, ok
}

func (h *Handler) decodeOrderRequest(w http.ResponseWriter, r *http.Request, log aqm.Logger) (OrderRequest, bool) {
	var req OrderRequest
	ok := decodeJSON(w, r, log, &req)
	return req, ok
}

func (h *Handler) decodeStatusRequest(w http.ResponseWriter, r *http.Request, log aqm.Logger) (OrderStatus, bool) {
	var req orderStatusRequest
	if !decodeJSON(w, r, log, &req) {
		return "", false
	}
	return req.Status, true
}

func (h *Handler) decodeItemsRequest(w http.ResponseWriter, r *http.Request, log aqm.Logger) ([]ItemRequest, bool) {
	var req orderItemsRequest
	if !decodeJSON(w, r, log, &req) {
		return nil, false
	}
	return req.Items, true
}

func (h *Handler) decodeCategorySpec(w http.ResponseWriter, r *http.Request, log aqm.Logger) (CategorySpec, bool) {
	var spec CategorySpec
	ok := decodeJSON(w, r, log, &spec)
	return spec, ok
}

func (h *Handler) decodeDishSpec(w http.ResponseWriter, r *http.Request, log aqm.Logger) (DishSpec, bool) {
	var spec DishSpec
	ok := decodeJSON(w, r, log, &spec)
	return spec, ok
}

func (h *Handler) decodeCustomerSpec(w http.ResponseWriter, r *http.Request, log aqm.Logger) (CustomerSpec, bool) {
	var spec CustomerSpec
	ok := decodeJSON(w, r, log, &spec)
	return spec, ok
}
