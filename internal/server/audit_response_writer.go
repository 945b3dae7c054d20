package server

import (
	"bytes"
	"net/http"
)

// auditRecorder captures the status code and body of a handled request so the
// audit middleware can persist what the client actually received.
type auditRecorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func newAuditRecorder(w http.ResponseWriter) *auditRecorder {
	// Handlers that never call WriteHeader implicitly answer 200.
	return &auditRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *auditRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *auditRecorder) Write(b []byte) (int, error) {
	rec.body.Write(b)
	return rec.ResponseWriter.Write(b)
}

func (rec *auditRecorder) Status() int {
	return rec.status
}

func (rec *auditRecorder) Body() string {
	return rec.body.String()
}
