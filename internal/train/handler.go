package train

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/railcheck/tc-api/internal/httpapi"
	"github.com/railcheck/tc-api/internal/train/entity"
)

// Handler exposes the authenticated train and coach endpoints.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(db *sqlx.DB, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: NewService(db, nil), logger: logger}
}

// pathID parses the {id} path segment. Ids are store-assigned integers;
// anything else behaves like an id that matches no row.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// List handles GET /trains. Unfiltered: every authenticated caller sees
// every train.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.List(r.Context())
	if err != nil {
		h.logger.Warnw("list trains failed", "err", err)
		httpapi.WriteJSON(w, http.StatusInternalServerError,
			httpapi.Failure("An error occurred. Please try again"))
		return
	}
	if rows == nil {
		rows = []*entity.Train{}
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"error": false, "trains": rows})
}

// Get handles GET /trains/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteJSON(w, http.StatusNotFound,
			httpapi.Failure("The requested resource doesn't exists"))
		return
	}
	t, err := h.svc.Get(r.Context(), id)
	if err == ErrNotFound {
		httpapi.WriteJSON(w, http.StatusNotFound,
			httpapi.Failure("The requested resource doesn't exists"))
		return
	}
	if err != nil {
		h.logger.Warnw("get train failed", "trainid", id, "err", err)
		httpapi.WriteJSON(w, http.StatusInternalServerError,
			httpapi.Failure("An error occurred. Please try again"))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"error":         false,
		"trainid":       t.TrainID,
		"name":          t.Name,
		"last_date":     t.LastDate,
		"last_time":     t.LastTime,
		"no_of_penalty": t.NoOfPenalty,
	})
}

// Create handles POST /trains. The shipped surface takes the name in a
// `train` field; `name` is accepted as an alias so either spelling of
// the payload works. Failure answers 200 with the error body, success 201.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.ParseParams(r)
	if err != nil {
		h.logger.Debugw("invalid train payload", "err", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}
	name := strings.TrimSpace(p["train"])
	if name == "" {
		name = strings.TrimSpace(p["name"])
	}
	if name == "" {
		if !p.Require(w, "train") {
			return
		}
	}
	penalty, _ := strconv.Atoi(p["no_of_penalty"])

	tcID, _ := httpapi.TCIDFromContext(r.Context())
	t := &entity.Train{
		Name:        name,
		LastDate:    p["last_date"],
		LastTime:    p["last_time"],
		NoOfPenalty: penalty,
	}
	id, err := h.svc.Create(r.Context(), tcID, t)
	if err != nil {
		h.logger.Warnw("create train failed", "tc_id", tcID, "err", err)
		httpapi.WriteJSON(w, http.StatusOK,
			httpapi.Failure("Failed to add train. Please try again"))
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"error":    false,
		"message":  "Train added successfully",
		"train_id": id,
	})
}

// Update handles PUT /trains/{id}: a full-field replace. Both outcomes
// answer 200; "not found" and a storage fault share the failure body.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.ParseParams(r)
	if err != nil {
		h.logger.Debugw("invalid train payload", "err", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}
	if !p.Require(w, "name", "last_date", "last_time", "no_of_penalty") {
		return
	}
	penalty, err := strconv.Atoi(strings.TrimSpace(p["no_of_penalty"]))
	if err != nil || penalty < 0 {
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}

	id, ok := pathID(r)
	if ok {
		err = h.svc.Update(r.Context(), id, p["name"], p["last_date"], p["last_time"], penalty)
	} else {
		err = ErrNotFound
	}
	if err != nil {
		if err != ErrNotFound {
			h.logger.Warnw("update train failed", "trainid", id, "err", err)
		}
		httpapi.WriteJSON(w, http.StatusOK,
			httpapi.Failure("Train failed to update. Please try again!"))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"error":   false,
		"message": "Train updated successfully",
	})
}

// ListCoaches handles GET /{id}/coaches.
func (h *Handler) ListCoaches(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"error": false, "coaches": []*entity.Coach{}})
		return
	}
	rows, err := h.svc.ListCoaches(r.Context(), id)
	if err != nil {
		h.logger.Warnw("list coaches failed", "trainid", id, "err", err)
		httpapi.WriteJSON(w, http.StatusInternalServerError,
			httpapi.Failure("An error occurred. Please try again"))
		return
	}
	if rows == nil {
		rows = []*entity.Coach{}
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"error": false, "coaches": rows})
}

// CreateCoach handles POST /trains/{id}/coaches. The `coach` field names
// the coach; its penalty counter starts at the submitted value or zero.
func (h *Handler) CreateCoach(w http.ResponseWriter, r *http.Request) {
	p, err := httpapi.ParseParams(r)
	if err != nil {
		h.logger.Debugw("invalid coach payload", "err", err)
		httpapi.WriteJSON(w, http.StatusBadRequest, httpapi.Failure("invalid payload"))
		return
	}
	if !p.Require(w, "coach") {
		return
	}
	penalty, _ := strconv.Atoi(p["no_of_penalty"])

	id, ok := pathID(r)
	if !ok {
		httpapi.WriteJSON(w, http.StatusOK,
			httpapi.Failure("Failed to add coach. Please try again"))
		return
	}
	if _, err := h.svc.AddCoach(r.Context(), id, p["coach"], penalty); err != nil {
		h.logger.Warnw("create coach failed", "trainid", id, "err", err)
		httpapi.WriteJSON(w, http.StatusOK,
			httpapi.Failure("Failed to add coach. Please try again"))
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, map[string]any{
		"error":   false,
		"message": "Coach added successfully",
		"coachid": p["coach"],
	})
}
