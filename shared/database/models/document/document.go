package document

import (
	"time"

	"github.com/google/uuid"
)

// Folder represents a hierarchical container for documents
type Folder struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name     string     `gorm:"not null" json:"name"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`
	Parent   *Folder    `gorm:"foreignKey:ParentID" json:"parent,omitempty"`

	// Owner context
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Visibility
	IsPublic  bool `gorm:"default:false" json:"is_public"`
	IsDeleted bool `gorm:"default:false;index" json:"is_deleted"`

	// Timestamps
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Document represents a stored file's metadata plus its extracted text
type Document struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`

	// File information
	Name      string `gorm:"not null" json:"name"`
	Extension string `json:"extension"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	Hash      string `json:"hash"`

	// Extracted content, populated asynchronously by the extraction worker
	Text *string `gorm:"type:text" json:"text,omitempty"`

	// Containment; nil means the user's root
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id"`

	// Owner context
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	// Visibility
	IsPublic  bool `gorm:"default:false" json:"is_public"`
	IsDeleted bool `gorm:"default:false;index" json:"is_deleted"`

	// Timestamps
	LastModified time.Time `json:"last_modified"`
	LastUpdated  time.Time `json:"last_updated"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasContent reports whether content has ever been written for the document
func (d *Document) HasContent() bool {
	return d.Hash != ""
}
