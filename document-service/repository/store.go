package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

// ErrNameConflict is returned when an upsert collides with an existing
// sibling under a different id
var ErrNameConflict = errors.New("a sibling with the same name already exists")

// ErrParentNotPermitted is returned when the caller lacks full access to the
// parent folder of a folder being created or moved
var ErrParentNotPermitted = errors.New("parent folder is not accessible")

// MissingDocumentError reports an attribute update against a document that is
// no longer in the store. It indicates a logic bug or a lost-write race, not
// an expected condition.
type MissingDocumentError struct {
	ID uuid.UUID
}

func (e *MissingDocumentError) Error() string {
	return fmt.Sprintf("document %s not found for attribute update", e.ID)
}

// SearchHit is one result of a full-text query
type SearchHit struct {
	Document  document.Document `json:"document"`
	Highlight string            `json:"highlight"`
}

// DocumentStore is the persistence contract the repositories run against.
// Lookups return (nil, nil) when the record is absent; upserts assign an id
// when none is set. Per-record upserts are atomic; no cross-record
// transactions are assumed.
type DocumentStore interface {
	GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error)
	UpsertDocument(ctx context.Context, doc *document.Document) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	FindDocumentByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name, extension string) (*document.Document, error)
	ListDocumentsByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Document, error)

	GetFolder(ctx context.Context, id uuid.UUID) (*document.Folder, error)
	UpsertFolder(ctx context.Context, folder *document.Folder) error
	FindFolderByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name string) (*document.Folder, error)
	ListFoldersByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Folder, error)

	SearchDocuments(ctx context.Context, userID uuid.UUID, query string, limit int) ([]SearchHit, error)
}

// sameParent compares two nullable parent references
func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
