package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/railcheck/tc-api/internal/httpapi"
)

type stubValidator struct {
	keys map[string]int64
	err  error
}

func (s *stubValidator) ValidateAPIKey(_ context.Context, key string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	_, ok := s.keys[key]
	return ok, nil
}

func (s *stubValidator) ResolveAPIKey(_ context.Context, key string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.keys[key], nil
}

func gatedEcho(t *testing.T, auth KeyValidator) (http.Handler, *int64) {
	t.Helper()
	var seenID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := httpapi.TCIDFromContext(r.Context())
		require.True(t, ok, "gated handler must see a bound account id")
		seenID = id
		w.WriteHeader(http.StatusOK)
	})
	return APIKeyGate(auth, zap.NewNop().Sugar())(next), &seenID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGateMissingHeader(t *testing.T) {
	gate, _ := gatedEcho(t, &stubValidator{keys: map[string]int64{}})

	req := httptest.NewRequest(http.MethodGet, "/trains", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Api key is misssing", body["message"])
}

func TestGateInvalidKey(t *testing.T) {
	gate, _ := gatedEcho(t, &stubValidator{keys: map[string]int64{"good": 3}})

	req := httptest.NewRequest(http.MethodGet, "/trains", nil)
	req.Header.Set("Authorization", "never-issued")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Access Denied. Invalid Api key", body["message"])
}

func TestGateForwardsWithIdentity(t *testing.T) {
	gate, seenID := gatedEcho(t, &stubValidator{keys: map[string]int64{"good": 3}})

	req := httptest.NewRequest(http.MethodGet, "/trains", nil)
	// raw key, no scheme prefix
	req.Header.Set("Authorization", "good")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), *seenID)
}

func TestGateStorageFault(t *testing.T) {
	gate, _ := gatedEcho(t, &stubValidator{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/trains", nil)
	req.Header.Set("Authorization", "good")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// the raw store error never reaches the client
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}
