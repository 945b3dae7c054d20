package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
)

func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		entry := repository.AuditLogPayload{
			Timestamp: time.Now().UTC(),
			Method:    r.Method,
			Path:      r.URL.Path,
			Handler:   handlerName(r.URL.Path, r.Method),
		}

		if username, _, ok := r.BasicAuth(); ok {
			entry.Actor = username
		}

		if strings.HasPrefix(r.URL.Path, "/shipments/") {
			parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
			if len(parts) >= 2 {
				entry.ShipmentID = parts[1]
			}
		}

		if r.Body != nil {
			requestBody, _ := io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewBuffer(requestBody))
			entry.Request = string(requestBody)
		}

		rec := newAuditRecorder(w)

		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.Status()
		entry.Response = rec.Body()

		s.audit.LogEntry(r.Context(), entry)
	})
}

func handlerName(path string, method string) string {
	switch {
	case strings.HasPrefix(path, "/riders/"):
		return "handleRiderShipments"
	case strings.HasPrefix(path, "/shipments"):
		switch {
		case method == http.MethodPost && strings.HasSuffix(path, "/transition"):
			return "handleTransition"
		case method == http.MethodPost && strings.HasSuffix(path, "/redispatch"):
			return "handleRedispatch"
		case method == http.MethodGet && strings.HasSuffix(path, "/history"):
			return "handleShipmentHistory"
		case method == http.MethodGet && strings.HasSuffix(path, "/notifications"):
			return "handleNotificationRecords"
		case method == http.MethodPost:
			return "handleCreateShipment"
		case method == http.MethodGet:
			return "handleGetShipment"
		}
	}
	return "unknown"
}
