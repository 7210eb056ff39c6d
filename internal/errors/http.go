// Package errors maps handler failures onto gofulmen error envelopes and
// writes them as the JSON error body of the HTTP surface.
package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	gferrors "github.com/fulmenhq/gofulmen/errors"
)

// Error codes.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeMethodNotAllowed   = "METHOD_NOT_ALLOWED"
	CodeInternal           = "INTERNAL_ERROR"
	CodeBadRequest         = "BAD_REQUEST"
	CodeInvalidJob         = "INVALID_JOB"
	CodeBusy               = "BUSY"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorBody is the content of the "error" key. Envelope context and details
// are both rendered under details; the correlation ID is the request ID.
type ErrorBody struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Severity  string         `json:"severity,omitempty"`
	Timestamp string         `json:"timestamp,omitempty"`
}

// HTTPErrorResponse is the envelope: {"error": {...}}.
type HTTPErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// HTTPError pairs an envelope with the status a handler wants returned.
type HTTPError struct {
	Status   int
	Envelope *gferrors.ErrorEnvelope
	Err      error
}

// New builds an HTTPError with a fresh envelope.
func New(status int, code, message string) *HTTPError {
	return &HTTPError{Status: status, Envelope: gferrors.NewErrorEnvelope(code, message)}
}

func (e *HTTPError) Code() string { return e.Envelope.Code }

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Envelope.Message + ": " + e.Err.Error()
	}
	return e.Envelope.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// WithDetails attaches structured details that fall outside the envelope's
// context constraints (nested maps, mixed arrays).
func (e *HTTPError) WithDetails(details map[string]any) *HTTPError {
	e.Envelope = e.Envelope.WithDetails(details)
	return e
}

// WithContext attaches scalar or string-list context. Entries of any other
// type are dropped by the envelope.
func (e *HTTPError) WithContext(ctx map[string]any) *HTTPError {
	e.Envelope, _ = e.Envelope.WithContext(ctx)
	return e
}

func BadRequest(message string, err error) *HTTPError {
	he := New(http.StatusBadRequest, CodeBadRequest, message)
	he.Err = err
	return he
}

func InvalidJob(issues []string) *HTTPError {
	return New(http.StatusUnprocessableEntity, CodeInvalidJob, "job validation failed").
		WithContext(map[string]any{"issues": issues})
}

func Conflict(code, message string) *HTTPError {
	return New(http.StatusConflict, code, message)
}

func NotFound(message string) *HTTPError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func MethodNotAllowed(message string) *HTTPError {
	return New(http.StatusMethodNotAllowed, CodeMethodNotAllowed, message)
}

func ServiceUnavailable(message string) *HTTPError {
	return New(http.StatusServiceUnavailable, CodeServiceUnavailable, message)
}

func Internal(message string, err error) *HTTPError {
	he := New(http.StatusInternalServerError, CodeInternal, message)
	he.Envelope = gferrors.SafeWithSeverity(he.Envelope, gferrors.SeverityHigh)
	he.Err = err
	return he
}

// RequestIDHeader is echoed into error bodies as the correlation ID.
const RequestIDHeader = "X-Request-ID"

// Body renders env as the "error" object.
func Body(env *gferrors.ErrorEnvelope) ErrorBody {
	body := ErrorBody{
		Code:      env.Code,
		Message:   env.Message,
		RequestID: env.CorrelationID,
		Severity:  string(env.Severity),
		Timestamp: env.Timestamp,
	}
	if len(env.Context)+len(env.Details) > 0 {
		body.Details = make(map[string]any, len(env.Context)+len(env.Details))
		for k, v := range env.Context {
			body.Details[k] = v
		}
		for k, v := range env.Details {
			body.Details[k] = v
		}
	}
	return body
}

// WriteEnvelope writes env with status.
func WriteEnvelope(w http.ResponseWriter, env *gferrors.ErrorEnvelope, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(HTTPErrorResponse{Error: Body(env)})
}

// RespondWithError writes err as an envelope. Errors that are not an
// HTTPError become a 500 without leaking their text.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error) {
	var he *HTTPError
	if !errors.As(err, &he) {
		he = Internal("internal server error", err)
	}
	env := he.Envelope
	if r != nil {
		if id := r.Header.Get(RequestIDHeader); id != "" {
			env = env.WithCorrelationID(id)
		}
	}
	WriteEnvelope(w, env, he.Status)
}
