package tc

import (
	"net/http"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railcheck/tc-api/internal/httpapi"
)

// Handler exposes the unauthenticated endpoints: registration and login.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil), logger: logger}
}

// Register handles POST /register. The shipped surface answers 201 for
// success and failure alike, distinguishing them only by the error flag,
// and existing clients depend on that.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.ParseParams(r)
	if err != nil {
		h.logger.Debugw("invalid register payload", "err", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}
	if !p.Require(w, "trainid", "name", "email", "zone") {
		return
	}
	if !httpapi.ValidEmail(w, p["email"]) {
		return
	}

	err = h.svc.Register(r.Context(), p["trainid"], p["name"], p["email"], p["zone"])
	switch {
	case err == nil:
		httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
			"error":   false,
			"message": "You are successfully registered",
		})
	case err == ErrAlreadyExists:
		httpapi.WriteJSON(w, http.StatusCreated,
			httpapi.Failure("Sorry, this email already existed"))
	default:
		h.logger.Warnw("register failed", "email", p["email"], "err", err)
		httpapi.WriteJSON(w, http.StatusCreated,
			httpapi.Failure("Oops! An error occurred while registereing"))
	}
}

// Login handles POST /login. Always 200; the body carries the outcome.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.ParseParams(r)
	if err != nil {
		h.logger.Debugw("invalid login payload", "err", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}
	if !p.Require(w, "email", "zone") {
		return
	}

	ok, err := h.svc.CheckLogin(r.Context(), p["email"], p["zone"])
	if err != nil {
		h.logger.Warnw("login check failed", "email", p["email"], "err", err)
		httpapi.WriteJSON(w, http.StatusOK, httpapi.Failure("An error occurred. Please try again"))
		return
	}
	if !ok {
		httpapi.WriteJSON(w, http.StatusOK, httpapi.Failure("Login failed. Incorrect credentials"))
		return
	}

	view, err := h.svc.GetByEmail(r.Context(), p["email"])
	if err != nil {
		h.logger.Warnw("login fetch failed", "email", p["email"], "err", err)
		httpapi.WriteJSON(w, http.StatusOK, httpapi.Failure("An error occurred. Please try again"))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"error":  false,
		"name":   view.Name,
		"email":  view.Email,
		"apiKey": view.APIKey,
	})
}

// Auth exposes the service's key-validation surface to the request gate.
func (h *Handler) Auth() *Service { return h.svc }
