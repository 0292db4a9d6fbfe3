package group

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
	GetAllGroups() ([]GroupResponse, error)
	GetByID(id int64) (*Group, error)
	Create(dto CreateGroupDTO) (*Group, error)
	Update(id int64, dto UpdateGroupDTO) (*Group, error)
	Delete(id int64) error
	Members(groupID int64) ([]*Member, error)
	AddMember(groupID int64, dto AddMemberDTO) (*Member, error)
	RemoveMember(groupID, userID int64) error
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

func (h *Handler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Service.GetAllGroups()
	if err != nil {
		h.Logger.Error("GetGroups: failed to get groups", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get groups")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string][]GroupResponse{"groups": groups})
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	g, err := h.Service.GetByID(id)
	if err != nil {
		h.writeServiceError(w, "GetGroup", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g.ToResponse())
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var dto CreateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.Service.Create(dto)
	if err != nil {
		h.writeServiceError(w, "CreateGroup", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, g.ToResponse())
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var dto UpdateGroupDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	g, err := h.Service.Update(id, dto)
	if err != nil {
		h.writeServiceError(w, "UpdateGroup", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, g.ToResponse())
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.writeServiceError(w, "DeleteGroup", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetMembers(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	members, err := h.Service.Members(id)
	if err != nil {
		h.writeServiceError(w, "GetMembers", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string][]*Member{"members": members})
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if u, ok := auth.UserFromContext(r.Context()); ok && u != nil {
		actor := u.ID
		dto.AddedBy = &actor
	}

	m, err := h.Service.AddMember(id, dto)
	if err != nil {
		h.writeServiceError(w, "AddMember", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := groupIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid group id")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.Service.RemoveMember(id, userID); err != nil {
		h.writeServiceError(w, "RemoveMember", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
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

func groupIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
