package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

// DocumentRepository provides access-controlled CRUD over document records.
// Every caller-facing operation gates on an access check before mutating or
// returning content; UpdateFileAttributes is the one system-level exception,
// reserved for the extraction worker and the upload-completion path.
type DocumentRepository struct {
	store DocumentStore
}

func NewDocumentRepository(store DocumentStore) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// GetDocument loads a document on behalf of a user. The document is withheld
// when the caller is neither the owner nor allowed by the public flag, even
// though it exists. Soft-deleted documents stay visible to their owner only.
func (r *DocumentRepository) GetDocument(ctx context.Context, userID, id uuid.UUID, includeText bool) (AccessResult, *document.Document, error) {
	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return AccessUnknown, nil, err
	}
	if doc == nil {
		return AccessNotFound, nil, nil
	}

	if doc.IsDeleted && doc.UserID != userID {
		return AccessNotFound, nil, nil
	}

	access := accessFor(userID, doc.UserID, doc.IsPublic)
	if access == AccessNotPermitted {
		return AccessNotPermitted, nil, nil
	}

	if !includeText {
		doc.Text = nil
	}

	return access, doc, nil
}

// GetDocumentByID is a system-level lookup without an access gate, used by
// the extraction worker and the upload-completion path
func (r *DocumentRepository) GetDocumentByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	return r.store.GetDocument(ctx, id)
}

// IndexDocument upserts a document's metadata and returns its id.
//
// An id the caller cannot fully access is silently cleared and the record
// treated as new rather than rejected; this permissive-overwrite policy is
// deliberate. Hash, Size and MimeType are server-derived and never taken
// from the incoming record; on an update or intentional overwrite they are
// carried over from the stored record.
func (r *DocumentRepository) IndexDocument(ctx context.Context, userID uuid.UUID, doc *document.Document) (uuid.UUID, error) {
	needsConflictCheck := true

	if doc.ID != uuid.Nil {
		existing, err := r.store.GetDocument(ctx, doc.ID)
		if err != nil {
			return uuid.Nil, err
		}

		if existing == nil || accessFor(userID, existing.UserID, existing.IsPublic) != AccessFull {
			doc.ID = uuid.Nil
		} else {
			// Pure metadata updates skip the redundant sibling query
			needsConflictCheck = existing.Name != doc.Name ||
				existing.Extension != doc.Extension ||
				!sameParent(existing.ParentID, doc.ParentID)

			doc.Hash = existing.Hash
			doc.Size = existing.Size
			doc.MimeType = existing.MimeType
			doc.Text = existing.Text
			doc.CreatedAt = existing.CreatedAt
		}
	}

	if needsConflictCheck {
		conflict, err := r.store.FindDocumentByName(ctx, userID, doc.ParentID, doc.Name, doc.Extension)
		if err != nil {
			return uuid.Nil, err
		}

		if conflict != nil {
			if doc.ID != uuid.Nil && doc.ID != conflict.ID {
				// Caller addressed one record while colliding with another;
				// there is no safe resolution
				return uuid.Nil, ErrNameConflict
			}

			// Intentional overwrite of the existing sibling
			doc.ID = conflict.ID
			doc.Hash = conflict.Hash
			doc.Size = conflict.Size
			doc.MimeType = conflict.MimeType
			doc.ParentID = conflict.ParentID
			doc.CreatedAt = conflict.CreatedAt
			if doc.Text == nil {
				doc.Text = conflict.Text
			}
		}
	}

	doc.UserID = userID
	doc.IsDeleted = false
	doc.LastUpdated = time.Now().UTC()
	if doc.LastModified.IsZero() {
		doc.LastModified = doc.LastUpdated
	}

	if err := r.store.UpsertDocument(ctx, doc); err != nil {
		return uuid.Nil, err
	}

	return doc.ID, nil
}

// DeleteFile soft-deletes a document. Requires FullAccess; any other outcome
// short-circuits without mutation.
func (r *DocumentRepository) DeleteFile(ctx context.Context, userID, id uuid.UUID) (AccessResult, error) {
	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return AccessUnknown, err
	}
	if doc == nil || doc.IsDeleted && doc.UserID != userID {
		return AccessNotFound, nil
	}

	access := accessFor(userID, doc.UserID, doc.IsPublic)
	if access != AccessFull {
		return access, nil
	}

	doc.IsDeleted = true
	doc.LastUpdated = time.Now().UTC()

	if err := r.store.UpsertDocument(ctx, doc); err != nil {
		return AccessUnknown, err
	}

	return AccessFull, nil
}

// PermanentlyDeleteFile removes the record from the store. Blob cleanup is
// the caller's responsibility.
func (r *DocumentRepository) PermanentlyDeleteFile(ctx context.Context, userID, id uuid.UUID) (AccessResult, error) {
	doc, err := r.store.GetDocument(ctx, id)
	if err != nil {
		return AccessUnknown, err
	}
	if doc == nil {
		return AccessNotFound, nil
	}

	access := accessFor(userID, doc.UserID, doc.IsPublic)
	if access != AccessFull {
		return access, nil
	}

	if err := r.store.DeleteDocument(ctx, id); err != nil {
		return AccessUnknown, err
	}

	return AccessFull, nil
}

// UpdateFileAttributes patches Hash, Size, MimeType and Text onto the stored
// record through a load-merge-write sequence so unrelated fields survive.
// Concurrent writers to the same document can still lose an update; the
// backing store's per-record upsert is the only atomicity relied on.
func (r *DocumentRepository) UpdateFileAttributes(ctx context.Context, doc *document.Document) error {
	existing, err := r.store.GetDocument(ctx, doc.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return &MissingDocumentError{ID: doc.ID}
	}

	if doc.Hash != "" {
		existing.Hash = doc.Hash
	}
	if doc.Size > 0 {
		existing.Size = doc.Size
	}
	if doc.MimeType != "" {
		existing.MimeType = doc.MimeType
	}
	if doc.Text != nil {
		existing.Text = doc.Text
	}
	existing.LastUpdated = time.Now().UTC()

	return r.store.UpsertDocument(ctx, existing)
}

// Search runs an owner-scoped highlighted full-text query over non-deleted
// documents
func (r *DocumentRepository) Search(ctx context.Context, userID uuid.UUID, query string, limit int) ([]SearchHit, error) {
	if limit <= 0 {
		limit = 50
	}
	return r.store.SearchDocuments(ctx, userID, query, limit)
}
