package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

// memStore is an in-memory DocumentStore for repository tests. Records are
// copied on read and write so tests observe the same isolation a real store
// provides.
type memStore struct {
	documents map[uuid.UUID]*document.Document
	folders   map[uuid.UUID]*document.Folder
}

func newMemStore() *memStore {
	return &memStore{
		documents: make(map[uuid.UUID]*document.Document),
		folders:   make(map[uuid.UUID]*document.Folder),
	}
}

func copyDoc(doc *document.Document) *document.Document {
	clone := *doc
	if doc.Text != nil {
		text := *doc.Text
		clone.Text = &text
	}
	if doc.ParentID != nil {
		parent := *doc.ParentID
		clone.ParentID = &parent
	}
	return &clone
}

func copyFolder(folder *document.Folder) *document.Folder {
	clone := *folder
	if folder.ParentID != nil {
		parent := *folder.ParentID
		clone.ParentID = &parent
	}
	return &clone
}

func (s *memStore) GetDocument(_ context.Context, id uuid.UUID) (*document.Document, error) {
	doc, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	return copyDoc(doc), nil
}

func (s *memStore) UpsertDocument(_ context.Context, doc *document.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	s.documents[doc.ID] = copyDoc(doc)
	return nil
}

func (s *memStore) DeleteDocument(_ context.Context, id uuid.UUID) error {
	delete(s.documents, id)
	return nil
}

func (s *memStore) FindDocumentByName(_ context.Context, userID uuid.UUID, parentID *uuid.UUID, name, extension string) (*document.Document, error) {
	for _, doc := range s.documents {
		if doc.UserID != userID || doc.IsDeleted {
			continue
		}
		if !sameParent(doc.ParentID, parentID) {
			continue
		}
		if strings.EqualFold(doc.Name, name) && strings.EqualFold(doc.Extension, extension) {
			return copyDoc(doc), nil
		}
	}
	return nil, nil
}

func (s *memStore) ListDocumentsByParent(_ context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Document, error) {
	var result []document.Document
	for _, doc := range s.documents {
		if doc.UserID == userID && !doc.IsDeleted && sameParent(doc.ParentID, parentID) {
			result = append(result, *copyDoc(doc))
		}
	}
	return result, nil
}

func (s *memStore) GetFolder(_ context.Context, id uuid.UUID) (*document.Folder, error) {
	folder, ok := s.folders[id]
	if !ok {
		return nil, nil
	}
	return copyFolder(folder), nil
}

func (s *memStore) UpsertFolder(_ context.Context, folder *document.Folder) error {
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}
	s.folders[folder.ID] = copyFolder(folder)
	return nil
}

func (s *memStore) FindFolderByName(_ context.Context, userID uuid.UUID, parentID *uuid.UUID, name string) (*document.Folder, error) {
	for _, folder := range s.folders {
		if folder.UserID != userID || folder.IsDeleted {
			continue
		}
		if sameParent(folder.ParentID, parentID) && strings.EqualFold(folder.Name, name) {
			return copyFolder(folder), nil
		}
	}
	return nil, nil
}

func (s *memStore) ListFoldersByParent(_ context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Folder, error) {
	var result []document.Folder
	for _, folder := range s.folders {
		if folder.UserID == userID && !folder.IsDeleted && sameParent(folder.ParentID, parentID) {
			result = append(result, *copyFolder(folder))
		}
	}
	return result, nil
}

func (s *memStore) SearchDocuments(_ context.Context, userID uuid.UUID, query string, limit int) ([]SearchHit, error) {
	var hits []SearchHit
	for _, doc := range s.documents {
		if doc.UserID != userID || doc.IsDeleted || doc.Text == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*doc.Text), strings.ToLower(query)) {
			hits = append(hits, SearchHit{Document: *copyDoc(doc), Highlight: query})
			if len(hits) >= limit {
				break
			}
		}
	}
	return hits, nil
}
