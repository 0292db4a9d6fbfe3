package product

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/scime/ecommerce/internal"
	"github.com/scime/ecommerce/internal/transport"
)

type ServiceAPI interface {
	List(page, limit int) ([]*Product, error)
	GetByID(id int64) (*Product, error)
	Create(dto CreateProductDTO) (*Product, error)
	Update(id int64, dto UpdateProductDTO) (*Product, error)
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

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	products, err := h.Service.List(page, limit)
	if err != nil {
		h.Logger.Error("ListProducts: failed to list products", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, p.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, ProductsResponse{Products: responses, Page: page, Limit: limit})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	p, err := h.Service.GetByID(id)
	if err != nil {
		h.writeServiceError(w, "GetProduct", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p.ToResponse())
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var dto CreateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(dto)
	if err != nil {
		h.writeServiceError(w, "CreateProduct", err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, p.ToResponse())
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	var dto UpdateProductDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(id, dto)
	if err != nil {
		h.writeServiceError(w, "UpdateProduct", err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p.ToResponse())
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.writeServiceError(w, "DeleteProduct", err)
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

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
