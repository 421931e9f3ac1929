package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cloudlens-backend/document-service/queue"
	"cloudlens-backend/document-service/repository"
	"cloudlens-backend/document-service/services"
	"cloudlens-backend/shared/config"
	"cloudlens-backend/shared/database/models/document"
	"cloudlens-backend/shared/utils/cache"
	"cloudlens-backend/shared/utils/contenttype"
	docUtils "cloudlens-backend/shared/utils/document"
)

// Shared handler dependencies, wired once from main
var (
	documents *repository.DocumentRepository
	folders   *repository.FolderRepository
	blobs     services.BlobStore
	jobs      *queue.Queue
)

// Init wires the handler package to its collaborators
func Init(docRepo *repository.DocumentRepository, folderRepo *repository.FolderRepository, blobStore services.BlobStore, jobQueue *queue.Queue) {
	documents = docRepo
	folders = folderRepo
	blobs = blobStore
	jobs = jobQueue
}

type indexDocumentRequest struct {
	ID           *uuid.UUID `json:"id"`
	Name         string     `json:"name" binding:"required"`
	Extension    string     `json:"extension"`
	ParentID     *uuid.UUID `json:"parent_id"`
	IsPublic     bool       `json:"is_public"`
	LastModified *time.Time `json:"last_modified"`
}

// IndexDocument creates or updates a document's metadata
// @Summary Index a document
// @Description Create or update document metadata. Content is uploaded separately.
// @Tags documents
// @Accept json
// @Produce json
// @Param document body indexDocumentRequest true "Document metadata"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Document indexed"
// @Failure 400 {object} map[string]string "Invalid request data"
// @Failure 409 {object} map[string]string "Name conflict"
// @Router /documents [post]
func IndexDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	var req indexDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc := document.Document{
		Name:      req.Name,
		Extension: req.Extension,
		ParentID:  req.ParentID,
		IsPublic:  req.IsPublic,
	}
	if req.ID != nil {
		doc.ID = *req.ID
	}
	if req.LastModified != nil {
		doc.LastModified = req.LastModified.UTC()
	}

	id, err := documents.IndexDocument(ctx.Request.Context(), userID, &doc)
	if err != nil {
		if errors.Is(err, repository.ErrNameConflict) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "A file with this name already exists in the folder"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to index document"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"id": id})
}

// UploadContent replaces a document's content
// @Summary Upload document content
// @Description Store the raw bytes of a previously indexed document. Queues text extraction when the content hash changes.
// @Tags documents
// @Accept octet-stream
// @Produce json
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Content stored"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Failure 413 {object} map[string]string "File too large"
// @Router /documents/{id}/content [put]
func UploadContent(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	cfg := config.GetConfig()
	if err := docUtils.ValidateUploadSize(ctx.Request.ContentLength, int64(cfg.MaxUploadSizeMB)); err != nil {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}

	access, doc, err := documents.GetDocument(ctx.Request.Context(), userID, id, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessFull) {
		return
	}

	maxBytes := int64(cfg.MaxUploadSizeMB) * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, maxBytes+1))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if int64(len(body)) > maxBytes {
		ctx.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("File size exceeds maximum allowed size of %d MB", cfg.MaxUploadSizeMB)})
		return
	}

	checksum, size, err := docUtils.CalculateChecksum(bytes.NewReader(body))
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate checksum"})
		return
	}

	if err := blobs.Write(ctx.Request.Context(), id.String(), bytes.NewReader(body), size); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	mimeType := ctx.ContentType()
	if mimeType == "" || mimeType == "application/octet-stream" {
		if detected := contenttype.DetermineContentType(fileName(doc)); detected != "" {
			mimeType = detected
		}
	}

	if err := documents.UpdateFileAttributes(ctx.Request.Context(), &document.Document{
		ID:       id,
		Hash:     checksum,
		Size:     size,
		MimeType: mimeType,
	}); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateDocument(id.String())
	}

	// Unchanged content keeps its previously extracted text
	if doc.Hash != checksum {
		jobs.Add(id.String())
		log.Printf("🔄 Queued text extraction for document %s", id)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"id":   id,
		"hash": checksum,
		"size": size,
	})
}

// GetDocument returns a document's metadata
// @Summary Get a document
// @Description Fetch document metadata. Pass include_text=true to include extracted text.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Param include_text query bool false "Include extracted text"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Document"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id} [get]
func GetDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	includeText := ctx.Query("include_text") == "true"

	// Metadata-only reads can come from cache
	if !includeText {
		if cm := cache.GetCacheManager(); cm != nil {
			if cached, found := cm.GetDocument(id.String()); found {
				if access := cachedAccess(userID, cached); access.CanRead() {
					ctx.JSON(http.StatusOK, gin.H{"document": cached, "access": access.String()})
					return
				}
			}
		}
	}

	access, doc, err := documents.GetDocument(ctx.Request.Context(), userID, id, includeText)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessReadOnly) {
		return
	}

	if !includeText {
		if cm := cache.GetCacheManager(); cm != nil {
			cm.SetDocument(doc)
		}
	}

	ctx.JSON(http.StatusOK, gin.H{"document": doc, "access": access.String()})
}

// DownloadDocument streams a document's content
// @Summary Download document content
// @Tags documents
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {file} binary "Document content"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id}/download [get]
func DownloadDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	access, doc, err := documents.GetDocument(ctx.Request.Context(), userID, id, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessReadOnly) {
		return
	}

	blob, err := blobs.Read(ctx.Request.Context(), id.String())
	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Document content not found"})
		return
	}
	defer blob.Close()

	mimeType := doc.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName(doc)))
	ctx.DataFromReader(http.StatusOK, doc.Size, mimeType, blob, nil)
}

// DeleteDocument soft-deletes a document
// @Summary Delete a document
// @Description Mark a document as deleted. Content and text are retained for restore.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Document deleted"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id} [delete]
func DeleteDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	access, err := documents.DeleteFile(ctx.Request.Context(), userID, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessFull) {
		return
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateDocument(id.String())
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// PermanentlyDeleteDocument removes a document and its content for good
// @Summary Permanently delete a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 200 {object} map[string]string "Document permanently deleted"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id}/permanent [delete]
func PermanentlyDeleteDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	access, err := documents.PermanentlyDeleteFile(ctx.Request.Context(), userID, id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessFull) {
		return
	}

	if err := blobs.Delete(ctx.Request.Context(), id.String()); err != nil {
		log.Printf("Warning: failed to remove blob for document %s: %v", id, err)
	}

	if cm := cache.GetCacheManager(); cm != nil {
		cm.InvalidateDocument(id.String())
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Document permanently deleted"})
}

// ReprocessDocument queues a document for text extraction again
// @Summary Reprocess a document
// @Description Queue the document for text extraction regardless of its current text.
// @Tags documents
// @Produce json
// @Param id path string true "Document ID"
// @Security BearerAuth
// @Success 202 {object} map[string]string "Extraction queued"
// @Failure 403 {object} map[string]string "Not permitted"
// @Failure 404 {object} map[string]string "Document not found"
// @Router /documents/{id}/reprocess [post]
func ReprocessDocument(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid document ID"})
		return
	}

	access, doc, err := documents.GetDocument(ctx.Request.Context(), userID, id, false)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load document"})
		return
	}
	if !respondForAccess(ctx, access, repository.AccessFull) {
		return
	}

	if !doc.HasContent() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Document has no content to process"})
		return
	}

	jobs.Add(id.String())
	ctx.JSON(http.StatusAccepted, gin.H{"message": "Extraction queued"})
}

// SearchDocuments runs a full-text query over the caller's documents
// @Summary Search documents
// @Description Full-text search over extracted text and file names, with highlighted fragments.
// @Tags search
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Maximum number of results"
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Search results"
// @Failure 400 {object} map[string]string "Missing query"
// @Router /search [get]
func SearchDocuments(ctx *gin.Context) {
	userID, ok := requestUserID(ctx)
	if !ok {
		return
	}

	query := ctx.Query("q")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	limit := 0
	if raw := ctx.Query("limit"); raw != "" {
		fmt.Sscanf(raw, "%d", &limit)
	}

	hits, err := documents.Search(ctx.Request.Context(), userID, query, limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"results": hits,
		"count":   len(hits),
	})
}

// requestUserID pulls the authenticated user id set by the auth middleware.
// An explicit user_id query parameter is accepted as a fallback for testing.
func requestUserID(ctx *gin.Context) (uuid.UUID, bool) {
	value, exists := ctx.Get("userID")
	if exists {
		if id, ok := value.(uuid.UUID); ok {
			return id, true
		}
	}

	if raw := ctx.Query("user_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}

	ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	return uuid.Nil, false
}

// respondForAccess writes the error response for insufficient access and
// reports whether the handler may continue
func respondForAccess(ctx *gin.Context, access repository.AccessResult, required repository.AccessResult) bool {
	switch access {
	case repository.AccessNotFound:
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return false
	case repository.AccessNotPermitted:
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return false
	case repository.AccessReadOnly:
		if required == repository.AccessFull {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Write access denied"})
			return false
		}
		return true
	case repository.AccessFull:
		return true
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Access could not be determined"})
		return false
	}
}

// cachedAccess re-evaluates access for a cached record without a store trip
func cachedAccess(userID uuid.UUID, doc *document.Document) repository.AccessResult {
	if doc.IsDeleted && doc.UserID != userID {
		return repository.AccessNotFound
	}
	if doc.UserID == userID {
		return repository.AccessFull
	}
	if doc.IsPublic {
		return repository.AccessReadOnly
	}
	return repository.AccessNotPermitted
}

func fileName(doc *document.Document) string {
	if doc.Extension == "" {
		return doc.Name
	}
	return doc.Name + "." + doc.Extension
}
