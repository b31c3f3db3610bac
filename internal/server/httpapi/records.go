package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Kyrilous/AutoLogg/internal/server/repository"
	"github.com/Kyrilous/AutoLogg/internal/server/service"
)

// addRecordRequest deliberately has no owner field: the owner comes from
// the verified token only, so a user_id smuggled into the payload is
// ignored by the decoder.
type addRecordRequest struct {
	ServiceType string `json:"serviceType"`
	Mileage     int64  `json:"mileage"`
	Date        string `json:"date"`
}

// listItem is the list wire shape. It differs from the create response
// (snake_case service_type, no owner), which the frontend depends on.
type listItem struct {
	ID          int64  `json:"id"`
	ServiceType string `json:"service_type"`
	Mileage     int64  `json:"mileage"`
	Date        string `json:"date"`
}

func (r *Router) handleAddRecord(w http.ResponseWriter, req *http.Request) {
	var body addRecordRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	rec, err := r.records.Create(req.Context(), ownerID(req.Context()), service.CreateInput{
		ServiceType: body.ServiceType,
		Mileage:     body.Mileage,
		Date:        body.Date,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Missing required fields."})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (r *Router) handleListRecords(w http.ResponseWriter, req *http.Request) {
	recs, err := r.records.ListByOwner(req.Context(), ownerID(req.Context()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	items := make([]listItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, listItem{ID: rec.ID, ServiceType: rec.ServiceType, Mileage: rec.Mileage, Date: rec.Date})
	}
	writeJSON(w, http.StatusOK, items)
}

func (r *Router) handleDeleteRecord(w http.ResponseWriter, req *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
	if err != nil {
		// Non-numeric ids report not-found, same as unknown ids.
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Record not found"})
		return
	}
	if err := r.records.DeleteIfOwner(req.Context(), ownerID(req.Context()), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Record not found"})
		case errors.Is(err, service.ErrForbidden):
			writeJSON(w, http.StatusForbidden, map[string]string{"message": "Unauthorized: You cannot delete this record"})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Record deleted successfully"})
}
