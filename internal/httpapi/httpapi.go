// Package httpapi holds the request/response conventions shared by every
// endpoint: the error-bool JSON envelope, param extraction for JSON and
// form bodies, and required-field validation.
package httpapi

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"
)

// WriteJSON serializes v with the given status. Every body this service
// emits goes through here.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Failure builds the error envelope clients match on.
func Failure(message string) map[string]any {
	return map[string]any{"error": true, "message": message}
}

// Params is a flat view over a request body. Clients send either a JSON
// object or a form-encoded body; both are normalized to string values.
type Params map[string]string

// ParseParams extracts body parameters from JSON or form encodings.
// A missing or empty body yields an empty map, not an error; field
// presence is checked separately by Require.
func ParseParams(r *http.Request) (Params, error) {
	ct := r.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, err
		}
		p := make(Params, len(raw))
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				p[k] = s
				continue
			}
			// non-string scalars (penalty counts etc.) keep their literal form
			p[k] = strings.Trim(string(v), `"`)
		}
		return p, nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	p := make(Params, len(r.PostForm))
	for k := range r.PostForm {
		p[k] = r.PostForm.Get(k)
	}
	return p, nil
}

// Require writes a 400 envelope listing every missing or empty field and
// reports whether the request may proceed.
func (p Params) Require(w http.ResponseWriter, fields ...string) bool {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(p[f]) == "" {
			missing = append(missing, f)
		}
	}
	if len(missing) == 0 {
		return true
	}
	WriteJSON(w, http.StatusBadRequest,
		Failure("Required field(s) "+strings.Join(missing, ", ")+" is missing or empty"))
	return false
}

// ValidEmail writes a 400 envelope for malformed addresses and reports
// whether the request may proceed.
func ValidEmail(w http.ResponseWriter, email string) bool {
	if _, err := mail.ParseAddress(email); err != nil {
		WriteJSON(w, http.StatusBadRequest, Failure("Email address is not valid"))
		return false
	}
	return true
}
