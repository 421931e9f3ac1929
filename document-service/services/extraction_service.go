package services

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"cloudlens-backend/document-service/extraction"
	"cloudlens-backend/document-service/repository"
	"cloudlens-backend/shared/database/models/document"
)

// DocumentCache invalidates cached document metadata after text changes
type DocumentCache interface {
	InvalidateDocument(documentID string) error
}

// ExtractionService processes queued extraction jobs: it loads the document,
// reads its blob, runs the extractor chain and stores the recovered text.
type ExtractionService struct {
	repo   *repository.DocumentRepository
	blobs  BlobStore
	lens   *extraction.Lens
	cache  DocumentCache  // optional
	events *EventsService // optional
}

// NewExtractionService creates an extraction service. cache and events may
// be nil.
func NewExtractionService(repo *repository.DocumentRepository, blobs BlobStore, lens *extraction.Lens, cache DocumentCache, events *EventsService) *ExtractionService {
	return &ExtractionService{
		repo:   repo,
		blobs:  blobs,
		lens:   lens,
		cache:  cache,
		events: events,
	}
}

// ProcessDocument handles one queued document id. A returned error puts the
// message back on the queue for another attempt.
func (s *ExtractionService) ProcessDocument(ctx context.Context, documentID string) error {
	id, err := uuid.Parse(documentID)
	if err != nil {
		return fmt.Errorf("invalid document id %q: %v", documentID, err)
	}

	doc, err := s.repo.GetDocumentByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load document %s: %v", documentID, err)
	}
	if doc == nil || doc.IsDeleted {
		// Deleted between enqueue and processing; nothing to do
		log.Printf("🔄 Skipping extraction for removed document %s", documentID)
		return nil
	}

	blob, err := s.blobs.Read(ctx, doc.ID.String())
	if err != nil {
		return fmt.Errorf("failed to read blob for document %s: %v", documentID, err)
	}
	defer blob.Close()

	result := s.lens.ExtractText(ctx, blob, fullName(doc), doc.MimeType)
	if err := ctx.Err(); err != nil {
		return err
	}

	if result.TextOrEmpty() == "" {
		log.Printf("🔄 No text recovered from document %s (%s)", documentID, doc.MimeType)
		s.events.Publish(DocumentEvent{
			Type:       "no_text",
			DocumentID: documentID,
			UserID:     doc.UserID.String(),
		})
		return nil
	}

	if err := s.repo.UpdateFileAttributes(ctx, &document.Document{
		ID:   doc.ID,
		Text: result.Text,
	}); err != nil {
		return fmt.Errorf("failed to store extracted text for document %s: %v", documentID, err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateDocument(documentID); err != nil {
			log.Printf("Warning: failed to invalidate cache for document %s: %v", documentID, err)
		}
	}

	log.Printf("✅ Extracted %d characters from document %s", len(result.TextOrEmpty()), documentID)
	s.events.Publish(DocumentEvent{
		Type:       "text_extracted",
		DocumentID: documentID,
		UserID:     doc.UserID.String(),
	})
	return nil
}

func fullName(doc *document.Document) string {
	if doc.Extension == "" {
		return doc.Name
	}
	return doc.Name + "." + doc.Extension
}
