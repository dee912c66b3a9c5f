package api

import (
	"errors"
	"net/http"

	"filescope/internal/schema"
	"filescope/internal/service"

	"github.com/go-chi/chi/v5"
)

// DescribeHandler 提供对象描述端点。
type DescribeHandler struct {
	service *service.DescribeService
}

func NewDescribeHandler(s *service.DescribeService) *DescribeHandler {
	return &DescribeHandler{service: s}
}

func (h *DescribeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/describe/{object}", h.GetObjectDescribe)
}

// GetObjectDescribe 返回对象的字段与可挂载文件的子关系描述。
func (h *DescribeHandler) GetObjectDescribe(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	objectName := chi.URLParam(r, "object")
	if objectName == "" {
		writeError(w, http.StatusBadRequest, "object name is required")
		return
	}

	describe, err := h.service.GetObjectDescribe(r.Context(), objectName)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownObject) {
			writeError(w, http.StatusNotFound, "object not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "describe object failed")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Data: describe})
}
