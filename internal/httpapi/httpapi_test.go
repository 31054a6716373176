package httpapi

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParamsForm(t *testing.T) {
	form := url.Values{"email": {"a@x.com"}, "zone": {"Z1"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := ParseParams(req)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", p["email"])
	assert.Equal(t, "Z1", p["zone"])
}

func TestParseParamsJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/trains/1",
		strings.NewReader(`{"name":"Express","no_of_penalty":2}`))
	req.Header.Set("Content-Type", "application/json")

	p, err := ParseParams(req)
	require.NoError(t, err)
	assert.Equal(t, "Express", p["name"])
	// numeric scalars keep their literal form
	assert.Equal(t, "2", p["no_of_penalty"])
}

func TestParseParamsFormOnPut(t *testing.T) {
	form := url.Values{"name": {"Express"}}
	req := httptest.NewRequest(http.MethodPut, "/trains/1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	p, err := ParseParams(req)
	require.NoError(t, err)
	assert.Equal(t, "Express", p["name"])
}

func TestRequireListsEveryMissingField(t *testing.T) {
	p := Params{"trainid": "T1", "zone": "   "}
	rec := httptest.NewRecorder()

	ok := p.Require(rec, "trainid", "name", "email", "zone")

	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Required field(s) name, email, zone is missing or empty")
}

func TestRequireAllPresent(t *testing.T) {
	p := Params{"email": "a@x.com", "zone": "Z1"}
	rec := httptest.NewRecorder()

	assert.True(t, p.Require(rec, "email", "zone"))
	assert.Empty(t, rec.Body.String())
}

func TestValidEmail(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.True(t, ValidEmail(rec, "a@x.com"))

	rec = httptest.NewRecorder()
	assert.False(t, ValidEmail(rec, "not-an-email"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email address is not valid")
}
