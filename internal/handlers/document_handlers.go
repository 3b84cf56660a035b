package handlers

import (
	"log"
	"net/http"
	"time"

	"ecodeli/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DocumentHandlers serves transfer document upload and retrieval
type DocumentHandlers struct {
	documentService services.DocumentService
	transferService services.TransferQueryService
}

func NewDocumentHandlers(documentService services.DocumentService, transferService services.TransferQueryService) *DocumentHandlers {
	return &DocumentHandlers{
		documentService: documentService,
		transferService: transferService,
	}
}

// UploadDocument stores an intake photo or condition report for a transfer
func (h *DocumentHandlers) UploadDocument(c echo.Context) error {
	ctx := c.Request().Context()

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid transfer ID format")
	}

	if _, err := h.transferService.GetByID(ctx, transferID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Transfer not found")
	}

	file, err := c.FormFile("document")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing document file")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read document")
	}
	defer src.Close()

	object, err := h.documentService.UploadDocument(ctx, transferID, file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if err != nil {
		log.Printf("Document upload failed for transfer %s: %v", transferID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to store document")
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"transfer_id": transferID.String(),
		"object":      object,
		"name":        file.Filename,
	})
}

// GetDocument redirects to a presigned read URL for a stored document
func (h *DocumentHandlers) GetDocument(c echo.Context) error {
	ctx := c.Request().Context()

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid transfer ID format")
	}
	name := c.Param("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Document name is required")
	}

	url, err := h.documentService.GetPresignedURL(ctx, transferID, name, 15*time.Minute)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Document not found")
	}

	return c.Redirect(http.StatusTemporaryRedirect, url)
}

// ListDocuments returns the document names stored for a transfer
func (h *DocumentHandlers) ListDocuments(c echo.Context) error {
	ctx := c.Request().Context()

	transferID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid transfer ID format")
	}

	names, err := h.documentService.ListDocuments(ctx, transferID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list documents")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"transfer_id": transferID,
		"documents":   names,
	})
}
