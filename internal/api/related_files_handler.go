package api

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"

	"filescope/internal/records"
	"filescope/internal/schema"
	"filescope/internal/service"

	"github.com/go-chi/chi/v5"
)

// RelatedFilesHandler 提供相关文件查询与内容下载端点。
type RelatedFilesHandler struct {
	service *service.RelatedFilesService
}

func NewRelatedFilesHandler(s *service.RelatedFilesService) *RelatedFilesHandler {
	return &RelatedFilesHandler{service: s}
}

func (h *RelatedFilesHandler) RegisterRoutes(r chi.Router) {
	r.Route("/related-files", func(r chi.Router) {
		r.Get("/", h.GetRelatedFiles)
		r.Get("/{id}/content", h.DownloadContent)
	})
}

// GetRelatedFiles 按 object/field/value 三个查询参数解析相关文件列表。
func (h *RelatedFilesHandler) GetRelatedFiles(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	objectName := queryParam(r, "object")
	fieldName := queryParam(r, "field")
	if objectName == "" {
		writeError(w, http.StatusBadRequest, "object query parameter is required")
		return
	}
	if fieldName == "" {
		writeError(w, http.StatusBadRequest, "field query parameter is required")
		return
	}
	fieldValue := r.URL.Query().Get("value")

	files, err := h.service.GetRelatedFiles(r.Context(), objectName, fieldName, fieldValue)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownObject) || errors.Is(err, schema.ErrUnknownField) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "resolve related files failed")
		return
	}

	writeJSON(w, http.StatusOK, envelope{Data: files})
}

// DownloadContent 流式返回指定文件版本的内容。
func (h *RelatedFilesHandler) DownloadContent(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		writeError(w, http.StatusInternalServerError, "handler not initialized")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "file id is required")
		return
	}

	content, err := h.service.OpenFileContent(r.Context(), id)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "open file content failed")
		return
	}
	defer content.Body.Close()

	w.Header().Set("Content-Type", contentTypeFor(content.FileExtension))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", downloadName(content)))
	if content.ContentSize > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(content.ContentSize, 10))
	}

	if _, err := io.Copy(w, content.Body); err != nil {
		// 客户端可能已断开，无法再写入错误响应
		return
	}
}

func contentTypeFor(extension string) string {
	if extension != "" {
		if value := mime.TypeByExtension("." + extension); value != "" {
			return value
		}
	}
	return "application/octet-stream"
}

func downloadName(content *service.FileContent) string {
	if content.PathOnClient != "" {
		return path.Base(content.PathOnClient)
	}
	if content.FileExtension != "" {
		return content.Title + "." + content.FileExtension
	}
	return content.Title
}
