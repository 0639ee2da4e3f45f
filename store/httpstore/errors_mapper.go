package httpstore

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-cloud-sync/store"
)

// mapHTTPError translates a non-2xx response into the transport-agnostic
// sentinel errors of the store package. Timeouts, rate limiting and server
// errors become the transient class so the engine retries them; everything
// else is deterministic and propagates as-is.
func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(resp.StatusCode())
	}

	switch resp.StatusCode() {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", store.ErrPermissionDenied, body)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", store.ErrNotFound, body)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return fmt.Errorf("%w: %s", store.ErrRevisionMismatch, body)
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return store.Transient(fmt.Errorf("http %d: %s", resp.StatusCode(), body))
	}

	if resp.StatusCode() >= http.StatusInternalServerError {
		return store.Transient(fmt.Errorf("http %d: %s", resp.StatusCode(), body))
	}

	return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
}
