// Package testutil holds helpers shared by the HTTP handler tests.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// ExecuteRequest runs req through handler and captures the response.
func ExecuteRequest(req *http.Request, handler http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// CheckResponseCode fails the test when the response status differs from the
// expected one.
func CheckResponseCode(t testing.TB, expected, actual int) {
	t.Helper()
	if expected != actual {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

// DecodeJSONBody decodes a JSON response body into dst, quoting the raw
// payload on failure.
func DecodeJSONBody(t testing.TB, body io.Reader, dst any) {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("decoding JSON response %q: %v", raw, err)
	}
}
