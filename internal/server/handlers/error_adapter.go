package handlers

import (
	"net/http"

	apperrors "github.com/3leaps/gohotfolder/internal/errors"
)

// HTTPErrorResponder writes err to w.
type HTTPErrorResponder func(w http.ResponseWriter, r *http.Request, err error)

var httpErrorResponder HTTPErrorResponder = apperrors.RespondWithError

// SetHTTPErrorResponder replaces the responder used by every handler. nil
// restores the default.
func SetHTTPErrorResponder(responder HTTPErrorResponder) {
	if responder == nil {
		responder = apperrors.RespondWithError
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder.
func ResetHTTPErrorResponder() {
	httpErrorResponder = apperrors.RespondWithError
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}

// NotFound and MethodNotAllowed are installed on the router.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, apperrors.NotFound("route not found: "+r.URL.Path))
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, apperrors.MethodNotAllowed("method "+r.Method+" not allowed on "+r.URL.Path))
}
