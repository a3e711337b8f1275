package httpclient

import (
	"net/http"
	"time"
)

// New returns a plain http.Client with a hard timeout. Used by the gallery
// remote gateway; gateway calls resolve to success or failure only, there is
// no automatic retry.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
