package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"cloudlens-backend/document-service/extraction"
	"cloudlens-backend/document-service/repository"
	"cloudlens-backend/shared/database/models/document"
)

// fakeStore backs the repository with an in-memory document map. Only the
// lookups the extraction path touches are implemented.
type fakeStore struct {
	docs map[uuid.UUID]*document.Document
}

func newFakeStore(docs ...*document.Document) *fakeStore {
	s := &fakeStore{docs: make(map[uuid.UUID]*document.Document)}
	for _, d := range docs {
		copied := *d
		s.docs[d.ID] = &copied
	}
	return s
}

func (s *fakeStore) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (s *fakeStore) UpsertDocument(ctx context.Context, doc *document.Document) error {
	copied := *doc
	s.docs[doc.ID] = &copied
	return nil
}

func (s *fakeStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	delete(s.docs, id)
	return nil
}

func (s *fakeStore) FindDocumentByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name, extension string) (*document.Document, error) {
	return nil, nil
}

func (s *fakeStore) ListDocumentsByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Document, error) {
	return nil, nil
}

func (s *fakeStore) GetFolder(ctx context.Context, id uuid.UUID) (*document.Folder, error) {
	return nil, nil
}

func (s *fakeStore) UpsertFolder(ctx context.Context, folder *document.Folder) error {
	return nil
}

func (s *fakeStore) FindFolderByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name string) (*document.Folder, error) {
	return nil, nil
}

func (s *fakeStore) ListFoldersByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Folder, error) {
	return nil, nil
}

func (s *fakeStore) SearchDocuments(ctx context.Context, userID uuid.UUID, query string, limit int) ([]repository.SearchHit, error) {
	return nil, nil
}

// fakeBlobStore serves fixed content for any id
type fakeBlobStore struct {
	content []byte
	readErr error
}

func (b *fakeBlobStore) Exists(ctx context.Context, id string) (bool, error) {
	return b.content != nil, nil
}

func (b *fakeBlobStore) Read(ctx context.Context, id string) (io.ReadCloser, error) {
	if b.readErr != nil {
		return nil, b.readErr
	}
	return io.NopCloser(bytes.NewReader(b.content)), nil
}

func (b *fakeBlobStore) Write(ctx context.Context, id string, r io.Reader, size int64) error {
	return nil
}

func (b *fakeBlobStore) Delete(ctx context.Context, id string) error {
	return nil
}

type countingCache struct {
	invalidated []string
}

func (c *countingCache) InvalidateDocument(documentID string) error {
	c.invalidated = append(c.invalidated, documentID)
	return nil
}

func textLens() *extraction.Lens {
	return extraction.NewLens(extraction.Options{}, extraction.NewPlainTextExtractor())
}

func TestProcessDocumentStoresExtractedText(t *testing.T) {
	doc := &document.Document{
		ID:        uuid.New(),
		Name:      "notes",
		Extension: "txt",
		MimeType:  "text/plain",
		UserID:    uuid.New(),
	}
	store := newFakeStore(doc)
	blobs := &fakeBlobStore{content: []byte("hello from the blob")}
	cache := &countingCache{}

	svc := NewExtractionService(repository.NewDocumentRepository(store), blobs, textLens(), cache, nil)

	if err := svc.ProcessDocument(context.Background(), doc.ID.String()); err != nil {
		t.Fatalf("ProcessDocument failed: %v", err)
	}

	stored := store.docs[doc.ID]
	if stored.Text == nil || *stored.Text != "hello from the blob" {
		t.Errorf("expected extracted text to be stored, got %v", stored.Text)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != doc.ID.String() {
		t.Errorf("expected cache invalidation for %s, got %v", doc.ID, cache.invalidated)
	}
}

func TestProcessDocumentLeavesRecordOnBlankText(t *testing.T) {
	doc := &document.Document{
		ID:        uuid.New(),
		Name:      "blank",
		Extension: "txt",
		MimeType:  "text/plain",
		UserID:    uuid.New(),
	}
	store := newFakeStore(doc)
	blobs := &fakeBlobStore{content: []byte("   \n\t ")}
	cache := &countingCache{}

	svc := NewExtractionService(repository.NewDocumentRepository(store), blobs, textLens(), cache, nil)

	if err := svc.ProcessDocument(context.Background(), doc.ID.String()); err != nil {
		t.Fatalf("expected blank text to be a non-error, got %v", err)
	}

	if store.docs[doc.ID].Text != nil {
		t.Error("expected document text to stay unset")
	}
	if len(cache.invalidated) != 0 {
		t.Errorf("expected no cache invalidation, got %v", cache.invalidated)
	}
}

func TestProcessDocumentSkipsDeletedDocument(t *testing.T) {
	doc := &document.Document{
		ID:        uuid.New(),
		Name:      "gone",
		MimeType:  "text/plain",
		UserID:    uuid.New(),
		IsDeleted: true,
	}
	store := newFakeStore(doc)
	blobs := &fakeBlobStore{content: []byte("orphaned content")}

	svc := NewExtractionService(repository.NewDocumentRepository(store), blobs, textLens(), nil, nil)

	if err := svc.ProcessDocument(context.Background(), doc.ID.String()); err != nil {
		t.Fatalf("expected deleted documents to be skipped cleanly, got %v", err)
	}
	if store.docs[doc.ID].Text != nil {
		t.Error("expected deleted document to stay untouched")
	}
}

func TestProcessDocumentMissingDocument(t *testing.T) {
	store := newFakeStore()
	svc := NewExtractionService(repository.NewDocumentRepository(store), &fakeBlobStore{}, textLens(), nil, nil)

	if err := svc.ProcessDocument(context.Background(), uuid.Nil.String()); err != nil {
		t.Fatalf("expected missing documents to be skipped cleanly, got %v", err)
	}
}

func TestProcessDocumentBlobReadFailureRetries(t *testing.T) {
	doc := &document.Document{
		ID:       uuid.New(),
		Name:     "unreachable",
		MimeType: "text/plain",
		UserID:   uuid.New(),
	}
	store := newFakeStore(doc)
	blobs := &fakeBlobStore{readErr: errors.New("connection refused")}

	svc := NewExtractionService(repository.NewDocumentRepository(store), blobs, textLens(), nil, nil)

	err := svc.ProcessDocument(context.Background(), doc.ID.String())
	if err == nil {
		t.Fatal("expected blob read failure to surface for retry")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected wrapped read error, got %v", err)
	}
}

func TestProcessDocumentRejectsBadID(t *testing.T) {
	svc := NewExtractionService(repository.NewDocumentRepository(newFakeStore()), &fakeBlobStore{}, textLens(), nil, nil)

	if err := svc.ProcessDocument(context.Background(), "not-a-uuid"); err == nil {
		t.Fatal("expected invalid id to fail")
	}
}
