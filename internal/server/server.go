//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/metrics"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/storage"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/transition"
)

type Storage interface {
	AddShipment(ctx context.Context, shipment storage.Shipment) error
	GetShipment(ctx context.Context, shipmentID string) (*storage.Shipment, error)
	GetShipmentHistory(ctx context.Context, shipmentID string) ([]storage.HistoryEntry, error)
	GetRiderShipments(ctx context.Context, riderID string, activeOnly bool) ([]storage.Shipment, error)
	NotificationRecords(ctx context.Context, shipmentID string) ([]storage.NotificationRecord, error)
}

type Guard interface {
	RequestTransition(ctx context.Context, req transition.Request) (transition.Result, error)
	Redispatch(ctx context.Context, shipmentID string) error
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

// ShipmentCache fronts single-shipment reads. The guard keeps it current on
// every applied transition; a miss falls through to the store.
type ShipmentCache interface {
	Get(shipmentID string) (*storage.Shipment, bool)
	Set(shipment storage.Shipment)
}

type Server struct {
	storage  Storage
	guard    Guard
	userRepo UserRepo
	cache    ShipmentCache
	audit    *AuditPipeline
	logger   *zap.Logger
	server   *http.Server
}

func New(storage Storage, guard Guard, userRepo UserRepo, cache ShipmentCache, audit *AuditPipeline, logger *zap.Logger) *Server {
	return &Server{
		storage:  storage,
		guard:    guard,
		userRepo: userRepo,
		cache:    cache,
		audit:    audit,
		logger:   logger,
	}
}

func (s *Server) Run(ctx context.Context, port string) error {
	router := s.setupRoutes()

	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	s.audit.Start(ctx)

	s.logger.Info("server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}

	s.audit.Shutdown(ctx)
	s.logger.Info("server shutdown completed")
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	api.Use(s.auditLogMiddleware)
	api.Use(s.basicAuthMiddleware)

	api.HandleFunc("/shipments", s.handleCreateShipment).Methods(http.MethodPost)
	api.HandleFunc("/shipments/{id}", s.handleGetShipment).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/history", s.handleShipmentHistory).Methods(http.MethodGet)
	api.HandleFunc("/shipments/{id}/transition", s.handleTransition).Methods(http.MethodPost)
	api.HandleFunc("/shipments/{id}/redispatch", s.handleRedispatch).Methods(http.MethodPost)
	api.HandleFunc("/shipments/{id}/notifications", s.handleNotificationRecords).Methods(http.MethodGet)
	api.HandleFunc("/riders/{riderID}/shipments", s.handleRiderShipments).Methods(http.MethodGet)

	return router
}

type contextKey string

const actorKey contextKey = "actor"

func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		valid, err := s.userRepo.ValidateUser(r.Context(), username, password)
		if err != nil || !valid {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFrom(r *http.Request) string {
	if actor, ok := r.Context().Value(actorKey).(string); ok {
		return actor
	}
	return "unknown"
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleCreateShipment(w http.ResponseWriter, r *http.Request) {
	var shipmentRequest struct {
		ID            string `json:"id"`
		CustomerName  string `json:"customer_name"`
		CustomerPhone string `json:"customer_phone"`
		Address       string `json:"address"`
	}

	if err := json.NewDecoder(r.Body).Decode(&shipmentRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if shipmentRequest.CustomerName == "" || shipmentRequest.Address == "" {
		respondError(w, http.StatusBadRequest, "customer_name and address are required")
		return
	}

	if shipmentRequest.ID == "" {
		shipmentRequest.ID = uuid.NewString()
	}

	now := time.Now().UTC()
	shipment := storage.Shipment{
		ID:            shipmentRequest.ID,
		CustomerName:  shipmentRequest.CustomerName,
		CustomerPhone: shipmentRequest.CustomerPhone,
		Address:       shipmentRequest.Address,
		Status:        storage.StatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.storage.AddShipment(r.Context(), shipment); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create shipment")
		return
	}

	s.cache.Set(shipment)
	metrics.ShipmentsCreatedTotal.Inc()
	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Shipment created successfully",
		"id":      shipment.ID,
	})
}

func (s *Server) handleGetShipment(w http.ResponseWriter, r *http.Request) {
	shipmentID := mux.Vars(r)["id"]

	if shipment, found := s.cache.Get(shipmentID); found {
		respondJSON(w, http.StatusOK, shipment)
		return
	}

	shipment, err := s.storage.GetShipment(r.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Shipment not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to get shipment")
		return
	}

	// Set evicts terminal statuses, so only active shipments re-enter
	// the cache after a miss.
	s.cache.Set(*shipment)
	respondJSON(w, http.StatusOK, shipment)
}

func (s *Server) handleShipmentHistory(w http.ResponseWriter, r *http.Request) {
	shipmentID := mux.Vars(r)["id"]

	entries, err := s.storage.GetShipmentHistory(r.Context(), shipmentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get shipment history")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shipment_id": shipmentID,
		"history":     entries,
	})
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	shipmentID := mux.Vars(r)["id"]

	var transitionRequest struct {
		TargetStatus string `json:"target_status"`
		RiderID      string `json:"rider_id,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&transitionRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.guard.RequestTransition(r.Context(), transition.Request{
		ShipmentID: shipmentID,
		Target:     storage.Status(transitionRequest.TargetStatus),
		Actor:      actorFrom(r),
		RiderID:    transitionRequest.RiderID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Shipment not found")
			return
		}
		if errors.Is(err, transition.ErrTransitionConflict) {
			respondError(w, http.StatusConflict, "Transition conflict, retry")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to apply transition")
		return
	}

	if !result.Applied && result.Reason == transition.ReasonIllegalTransition {
		respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	// already_in_state is a success-no-op, not an error.
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedispatch(w http.ResponseWriter, r *http.Request) {
	shipmentID := mux.Vars(r)["id"]

	if err := s.guard.Redispatch(r.Context(), shipmentID); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			respondError(w, http.StatusNotFound, "Shipment not found")
			return
		}
		respondError(w, http.StatusBadGateway, "Redispatch finished with errors: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Redispatch completed"})
}

func (s *Server) handleNotificationRecords(w http.ResponseWriter, r *http.Request) {
	shipmentID := mux.Vars(r)["id"]

	records, err := s.storage.NotificationRecords(r.Context(), shipmentID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get notification records")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"shipment_id":   shipmentID,
		"notifications": records,
	})
}

func (s *Server) handleRiderShipments(w http.ResponseWriter, r *http.Request) {
	riderID := mux.Vars(r)["riderID"]
	activeOnly := r.URL.Query().Get("active_only") == "true"

	shipments, err := s.storage.GetRiderShipments(r.Context(), riderID, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to get rider shipments")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rider_id":  riderID,
		"shipments": shipments,
	})
}
