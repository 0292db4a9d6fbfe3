package permission

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/transport"
)

type ServiceAPI interface {
	Sync() error
	GetAll() ([]*Permission, error)
	Names() ([]string, error)
	GetByID(id int64) (*Permission, error)
	GetByName(name string) (*Permission, error)
	Create(dto CreatePermissionDTO) (*Permission, error)
	Update(id int64, dto UpdatePermissionDTO) (*Permission, error)
	Delete(id int64) error
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

func (h *Handler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("ListPermissions: failed to get permissions", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get permissions")
		return
	}

	responses := make([]PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		responses = append(responses, p.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": responses})
}

func (h *Handler) ListPermissionNames(w http.ResponseWriter, r *http.Request) {
	names, err := h.Service.Names()
	if err != nil {
		h.Logger.Error("ListPermissionNames: failed to get names", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get permission names")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"permissions": names})
}

func (h *Handler) GetPermission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission id")
		return
	}

	p, err := h.Service.GetByID(id)
	if err != nil {
		h.Logger.Error("GetPermission: lookup failed", "error", err, "permission_id", id)
		h.WriteError(w, http.StatusInternalServerError, "failed to get permission")
		return
	}
	if p == nil {
		h.WriteError(w, http.StatusNotFound, "permission not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, p.ToResponse())
}

func (h *Handler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var dto CreatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(dto)
	if err != nil {
		h.writeServiceError(w, "CreatePermission", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p.ToResponse())
}

func (h *Handler) UpdatePermission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission id")
		return
	}

	var dto UpdatePermissionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(id, dto)
	if err != nil {
		h.writeServiceError(w, "UpdatePermission", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p.ToResponse())
}

func (h *Handler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid permission id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.writeServiceError(w, "DeletePermission", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SyncPermissions(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Sync(); err != nil {
		h.Logger.Error("SyncPermissions: sync failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to sync permissions")
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "synced"})
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
