package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/interview-coach/internal/interview"
)

// HTTPStatus maps engine errors onto HTTP status codes. Sequencing
// conflicts are 409 so clients know the request was understood but is
// not valid in the session's current state; backend outages are 503/502
// and may be retried.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, interview.ErrSessionBusy),
		errors.Is(err, interview.ErrOutOfOrderAnswer),
		errors.Is(err, interview.ErrSessionClosed),
		errors.Is(err, interview.ErrSessionNotFinished):
		return http.StatusConflict
	case errors.Is(err, interview.ErrRetrievalUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, interview.ErrGenerationFailed),
		errors.Is(err, interview.ErrEvaluationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
