package complaints

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pulsedesk/complaints/pkg/common/logger"
	"github.com/pulsedesk/complaints/pkg/common/middleware"
)

type HTTPHandler struct {
	service *Service
	maxBody int64
}

func NewHTTPHandler(service *Service, maxBody int64) *HTTPHandler {
	return &HTTPHandler{service: service, maxBody: maxBody}
}

func (h *HTTPHandler) Register(router *mux.Router) {
	router.HandleFunc("/complaints", h.handleSubmit).Methods(http.MethodPost)
	router.HandleFunc("/complaints", h.handleList).Methods(http.MethodGet)
	router.HandleFunc("/complaints/automation/recent/{category}", h.handleRecent).Methods(http.MethodGet)
	router.HandleFunc("/complaints/{id}", h.handleGet).Methods(http.MethodGet)
	router.HandleFunc("/complaints/{id}/status", h.handleUpdateStatus).Methods(http.MethodPatch)
}

type submitRequest struct {
	Text string `json:"text"`
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *HTTPHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Log.WithError(err).Warn("invalid complaint payload")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	clientIP := middleware.ClientIPFromContext(r.Context())

	c, err := h.service.Submit(r.Context(), req.Text, clientIP)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to submit complaint")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (h *HTTPHandler) handleList(w http.ResponseWriter, r *http.Request) {
	f := Filter{
		Status:    r.URL.Query().Get("status"),
		Category:  r.URL.Query().Get("category"),
		Sentiment: r.URL.Query().Get("sentiment"),
	}

	var err error
	if f.SinceHours, err = queryInt(r, "since_hours", 0); err != nil {
		http.Error(w, "since_hours must be an integer", http.StatusBadRequest)
		return
	}
	if f.Limit, err = queryInt(r, "limit", 0); err != nil {
		http.Error(w, "limit must be an integer", http.StatusBadRequest)
		return
	}
	if f.Offset, err = queryInt(r, "offset", 0); err != nil {
		http.Error(w, "offset must be an integer", http.StatusBadRequest)
		return
	}

	page, err := h.service.List(r.Context(), f)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Log.WithError(err).Error("failed to list complaints")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *HTTPHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "complaint not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to fetch complaint")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	if h.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	c, err := h.service.UpdateStatus(r.Context(), mux.Vars(r)["id"], req.Status)
	if err != nil {
		if IsValidationError(err) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "complaint not found", http.StatusNotFound)
			return
		}
		logger.Log.WithError(err).Error("failed to update complaint status")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (h *HTTPHandler) handleRecent(w http.ResponseWriter, r *http.Request) {
	hours, err := queryInt(r, "hours", 1)
	if err != nil {
		http.Error(w, "hours must be an integer", http.StatusBadRequest)
		return
	}

	items, err := h.service.RecentForAutomation(r.Context(), mux.Vars(r)["category"], hours)
	if err != nil {
		logger.Log.WithError(err).Error("failed to fetch recent complaints")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
