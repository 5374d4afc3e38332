package sources

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var testHTTP = HTTPConfig{Timeout: 2 * time.Second, UserAgent: "dashboard-test"}

// newUpstream serves body with status for every request and records the last request.
func newUpstream(t *testing.T, status int, body string) (*httptest.Server, *http.Request) {
	t.Helper()
	last := new(http.Request)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*last = *r.Clone(r.Context())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, last
}
