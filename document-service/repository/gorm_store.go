package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cloudlens-backend/shared/database/models/document"
)

// GormStore is the Postgres-backed DocumentStore. Full-text search and
// highlighting lean on the database (`ts_headline`); everything else is
// plain per-record reads and upserts.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) GetDocument(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc document.Document
	err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) UpsertDocument(ctx context.Context, doc *document.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Save(doc).Error
}

func (s *GormStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&document.Document{}, "id = ?", id).Error
}

func (s *GormStore) FindDocumentByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name, extension string) (*document.Document, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID).
		Where("LOWER(name) = LOWER(?) AND LOWER(extension) = LOWER(?)", name, extension)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var doc document.Document
	err := query.First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *GormStore) ListDocumentsByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Document, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var documents []document.Document
	if err := query.Order("name ASC").Find(&documents).Error; err != nil {
		return nil, err
	}
	return documents, nil
}

func (s *GormStore) GetFolder(ctx context.Context, id uuid.UUID) (*document.Folder, error) {
	var folder document.Folder
	err := s.db.WithContext(ctx).First(&folder, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *GormStore) UpsertFolder(ctx context.Context, folder *document.Folder) error {
	if folder.ID == uuid.Nil {
		folder.ID = uuid.New()
	}
	return s.db.WithContext(ctx).Save(folder).Error
}

func (s *GormStore) FindFolderByName(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name string) (*document.Folder, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID).
		Where("LOWER(name) = LOWER(?)", name)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var folder document.Folder
	err := query.First(&folder).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &folder, nil
}

func (s *GormStore) ListFoldersByParent(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) ([]document.Folder, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ? AND is_deleted = false", userID)

	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var folders []document.Folder
	if err := query.Order("name ASC").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// searchRow carries a document row plus its generated highlight
type searchRow struct {
	document.Document
	Highlight string
}

func (s *GormStore) SearchDocuments(ctx context.Context, userID uuid.UUID, query string, limit int) ([]SearchHit, error) {
	var rows []searchRow

	err := s.db.WithContext(ctx).Raw(`
		SELECT d.*,
		       ts_headline('simple', COALESCE(d.text, ''), plainto_tsquery('simple', @query)) AS highlight
		FROM documents d
		WHERE d.user_id = @user_id
		  AND d.is_deleted = false
		  AND to_tsvector('simple', COALESCE(d.text, '') || ' ' || d.name) @@ plainto_tsquery('simple', @query)
		ORDER BY d.last_updated DESC
		LIMIT @limit`,
		map[string]interface{}{
			"query":   query,
			"user_id": userID,
			"limit":   limit,
		}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, SearchHit{Document: row.Document, Highlight: row.Highlight})
	}
	return hits, nil
}
