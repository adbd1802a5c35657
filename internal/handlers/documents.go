package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/services"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/gin-gonic/gin"
)

type DocumentsHandler struct {
	base
	documents *services.DocumentService
}

func NewDocumentsHandler(client *supabase.Client, profiles *services.ProfileService, documents *services.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{
		base:      base{client: client, profiles: profiles},
		documents: documents,
	}
}

func (h *DocumentsHandler) List(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	docs, err := h.documents.List(s.client, s.user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.DocumentsResponse{Documents: docs})
}

// Upload accepts a multipart form with a "file" part and an optional
// "page_count" field.
func (h *DocumentsHandler) Upload(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "no file uploaded",
			Message: err.Error(),
		})
		return
	}
	if header.Size > services.MaxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error:   "file too large",
			Message: fmt.Sprintf("maximum size is %d bytes", services.MaxDocumentSize),
		})
		return
	}

	pageCount := 0
	if v := c.PostForm("page_count"); v != "" {
		pageCount, err = strconv.Atoi(v)
		if err != nil || pageCount < 0 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid page_count"})
			return
		}
	}

	src, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to open file",
			Message: err.Error(),
		})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, services.MaxDocumentSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "failed to read file",
			Message: err.Error(),
		})
		return
	}
	if len(data) > services.MaxDocumentSize {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: "file too large"})
		return
	}

	doc, err := h.documents.Upload(s.client, supabase.NewStorageClient(s.client), s.user, services.UploadDocument{
		FileName:  header.Filename,
		PageCount: pageCount,
		Data:      data,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

func (h *DocumentsHandler) Download(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	doc, data, err := h.documents.Download(s.client, supabase.NewStorageClient(s.client), s.user.ID, id)
	if err != nil {
		writeError(c, err)
		return
	}

	contentType, err := services.DetectContentType(data)
	if err != nil {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, contentType, data)
}

func (h *DocumentsHandler) Delete(c *gin.Context) {
	s, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.documents.Delete(s.client, supabase.NewStorageClient(s.client), s.user.ID, id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
