package tc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestHandler(store *memStore) *Handler {
	return &Handler{svc: NewService(nil, store), logger: zap.NewNop().Sugar()}
}

func postForm(h http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRegisterHandlerSuccess(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postForm(h.Register, "/register", url.Values{
		"trainid": {"T1"}, "name": {"Alice"}, "email": {"a@x.com"}, "zone": {"Z1"},
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "You are successfully registered", body["message"])
}

func TestRegisterHandlerDuplicateSameStatus(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)
	form := url.Values{"trainid": {"T1"}, "name": {"Alice"}, "email": {"a@x.com"}, "zone": {"Z1"}}

	postForm(h.Register, "/register", form)
	rec := postForm(h.Register, "/register", form)

	// the shipped surface answers 201 for the duplicate as well
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Sorry, this email already existed", body["message"])
	assert.Len(t, store.byEmail, 1)
}

func TestRegisterHandlerMissingFields(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postForm(h.Register, "/register", url.Values{"trainid": {"T1"}, "zone": {"  "}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Required field(s) name, email, zone is missing or empty", body["message"])
}

func TestRegisterHandlerInvalidEmail(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postForm(h.Register, "/register", url.Values{
		"trainid": {"T1"}, "name": {"Alice"}, "email": {"not-an-email"}, "zone": {"Z1"},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email address is not valid", decodeBody(t, rec)["message"])
}

func TestRegisterHandlerJSONBody(t *testing.T) {
	h := newTestHandler(newMemStore())

	req := httptest.NewRequest(http.MethodPost, "/register",
		strings.NewReader(`{"trainid":"T1","name":"Alice","email":"a@x.com","zone":"Z1"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Register(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["error"])
}

func TestLoginHandlerReturnsRegisteredKey(t *testing.T) {
	store := newMemStore()
	h := newTestHandler(store)

	postForm(h.Register, "/register", url.Values{
		"trainid": {"T1"}, "name": {"Alice"}, "email": {"a@x.com"}, "zone": {"Z1"},
	})
	rec := postForm(h.Login, "/login", url.Values{"email": {"a@x.com"}, "zone": {"Z1"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["error"])
	assert.Equal(t, "Alice", body["name"])
	assert.Equal(t, "a@x.com", body["email"])
	assert.Equal(t, store.byEmail["a@x.com"].APIKey, body["apiKey"])
}

func TestLoginHandlerUnknownEmail(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postForm(h.Login, "/login", url.Values{"email": {"nobody@x.com"}, "zone": {"Z1"}})

	// failure is a 200 with the error body, as shipped
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["error"])
	assert.Equal(t, "Login failed. Incorrect credentials", body["message"])
}

func TestLoginHandlerMissingFields(t *testing.T) {
	h := newTestHandler(newMemStore())

	rec := postForm(h.Login, "/login", url.Values{"email": {"a@x.com"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Required field(s) zone is missing or empty", decodeBody(t, rec)["message"])
}
