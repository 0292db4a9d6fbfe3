package userpermission

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/auth"
	"github.com/scime/ecommerce/internal/transport"
)

type ServiceAPI interface {
	Assign(dto AssignPermissionsDTO) ([]GrantResult, error)
	Update(dto AssignPermissionsDTO) ([]GrantResult, error)
	Revoke(dto RevokePermissionsDTO) ([]GrantResult, error)
	GrantsForUser(userID int64) ([]*Grant, error)
	PermissionNamesForUser(userID int64) ([]string, error)
	Evaluate(userID int64, permissionName string, targetID *int64) (Decision, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) AssignPermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	var dto AssignPermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.UserID = userID
	dto.GrantedBy = actorID(r)

	results, err := h.Service.Assign(dto)
	if err != nil {
		h.writeServiceError(w, "AssignPermissions", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, GrantResultsResponse{Results: results})
}

func (h *Handler) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	var dto AssignPermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.UserID = userID
	dto.GrantedBy = actorID(r)

	results, err := h.Service.Update(dto)
	if err != nil {
		// entries processed before the failure are still reported
		if appErr, ok := internal.IsAppError(err); ok {
			h.Logger.Warn("UpdatePermissions: partial failure", "code", appErr.Code, "error", err)
			h.WriteJSON(w, appErr.StatusCode, map[string]interface{}{
				"results": results,
				"error":   appErr,
			})
			return
		}
		h.Logger.Error("UpdatePermissions: unexpected failure", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantResultsResponse{Results: results})
}

func (h *Handler) RevokePermissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	var dto RevokePermissionsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dto.UserID = userID

	results, err := h.Service.Revoke(dto)
	if err != nil {
		h.writeServiceError(w, "RevokePermissions", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, GrantResultsResponse{Results: results})
}

func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	grants, err := h.Service.GrantsForUser(userID)
	if err != nil {
		h.writeServiceError(w, "ListGrants", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"grants": grants})
}

func (h *Handler) ListPermissionNames(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	names, err := h.Service.PermissionNamesForUser(userID)
	if err != nil {
		h.writeServiceError(w, "ListPermissionNames", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": names})
}

// CheckPermission evaluates one permission for a user, optionally against a
// target passed as ?target=<id>. The response carries the raw three-valued
// decision; collapsing Indeterminate into allow or deny is the caller's call.
func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userIDParam(w, r)
	if !ok {
		return
	}

	permissionName := chi.URLParam(r, "permission")
	if permissionName == "" {
		h.WriteError(w, http.StatusBadRequest, "permission name is required")
		return
	}

	var targetID *int64
	if raw := r.URL.Query().Get("target"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid target id")
			return
		}
		targetID = &id
	}

	decision, err := h.Service.Evaluate(userID, permissionName, targetID)
	if err != nil {
		h.writeServiceError(w, "CheckPermission", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Permission: permissionName,
		TargetID:   targetID,
		Decision:   int(decision),
		Outcome:    decision.String(),
	})
}

func (h *Handler) userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return userID, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.Logger.Warn(op+": request rejected", "code", appErr.Code, "error", err)
		h.WriteError(w, appErr.StatusCode, appErr.Error())
		return
	}
	h.Logger.Error(op+": unexpected failure", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}

func actorID(r *http.Request) *int64 {
	if u, ok := auth.UserFromContext(r.Context()); ok && u != nil {
		id := u.ID
		return &id
	}
	return nil
}
