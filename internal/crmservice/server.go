package crmservice

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"bookinghub/internal/domain"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server is the satellite CRM HTTP service. It records booking notifications
// pushed by the booking API and dispatches the matching emails.
type Server struct {
	store       *Store
	dispatcher  *Dispatcher
	bearerToken string
	logger      *slog.Logger
}

func NewServer(store *Store, dispatcher *Dispatcher, bearerToken string, logger *slog.Logger) *Server {
	return &Server{
		store:       store,
		dispatcher:  dispatcher,
		bearerToken: bearerToken,
		logger:      logger,
	}
}

// Routes returns the service mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", s.handleHealth)
	mux.HandleFunc("POST /notify", s.handleNotify)
	mux.HandleFunc("GET /notifications", s.handleList)
	mux.HandleFunc("DELETE /notifications/clear", s.handleClear)
	mux.HandleFunc("DELETE /notifications/{id}", s.handleDelete)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "crm-service"})
}

// authorize checks the shared bearer token. 401 when the header is missing or
// malformed, 403 when the token does not match.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if auth == "" || !strings.HasPrefix(auth, prefix) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or malformed authorization header"})
		return false
	}
	if strings.TrimSpace(auth[len(prefix):]) != s.bearerToken {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "invalid token"})
		return false
	}
	return true
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	var n domain.BookingNotification
	if err := json.NewDecoder(r.Body).Decode(&n); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed payload"})
		return
	}
	var missing []string
	if n.BookingID == "" {
		missing = append(missing, "booking_id")
	}
	if n.User == nil {
		missing = append(missing, "user")
	}
	if n.Event == nil {
		missing = append(missing, "event")
	}
	if n.FacilitatorID == "" {
		missing = append(missing, "facilitator_id")
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "missing required fields: " + strings.Join(missing, ", "),
		})
		return
	}

	rec := s.store.Add(&n)
	s.logger.InfoContext(r.Context(), "notification received",
		"id", rec.ID, "booking_id", n.BookingID, "action", n.Action)
	s.dispatcher.Dispatch(r.Context(), &n)

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "notification recorded",
		"id":      rec.ID,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": s.store.List()})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid notification id"})
		return
	}
	if !s.store.Delete(id) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "notification not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if !s.authorize(w, r) {
		return
	}
	s.store.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "notifications cleared"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
