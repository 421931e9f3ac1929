package database

import (
	"log"
	"time"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

// DemoUserID is the fixed owner of the seeded demo tree so local clients can
// authenticate against a known account
var DemoUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// SeedDatabase populates a demo folder tree with a few documents. Seeding is
// idempotent; existing records are left alone.
func SeedDatabase() error {
	log.Println("🌱 Checking database seed data...")

	foldersCreated, err := seedDemoFolders()
	if err != nil {
		return err
	}

	documentsCreated, err := seedDemoDocuments()
	if err != nil {
		return err
	}

	if foldersCreated > 0 || documentsCreated > 0 {
		log.Printf("✅ Database seeding completed (%d folders, %d documents created)", foldersCreated, documentsCreated)
	} else {
		log.Println("✅ Database seed data is up to date")
	}

	return nil
}

var demoFolders = []document.Folder{
	{
		ID:     uuid.MustParse("10000000-0000-0000-0000-000000000001"),
		Name:   "Documents",
		UserID: DemoUserID,
	},
	{
		ID:     uuid.MustParse("10000000-0000-0000-0000-000000000002"),
		Name:   "Photos",
		UserID: DemoUserID,
	},
	{
		ID:       uuid.MustParse("10000000-0000-0000-0000-000000000003"),
		Name:     "Shared",
		UserID:   DemoUserID,
		IsPublic: true,
	},
}

func seedDemoFolders() (int, error) {
	db := GetDB()
	created := 0

	for _, folder := range demoFolders {
		var count int64
		if err := db.Model(&document.Folder{}).Where("id = ?", folder.ID).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		folder.CreatedAt = time.Now().UTC()
		folder.LastUpdated = folder.CreatedAt
		if err := db.Create(&folder).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}

func seedDemoDocuments() (int, error) {
	db := GetDB()
	created := 0

	documentsFolder := demoFolders[0].ID
	welcome := "Welcome to your personal cloud. Upload files and their text becomes searchable."

	docs := []document.Document{
		{
			ID:        uuid.MustParse("20000000-0000-0000-0000-000000000001"),
			Name:      "welcome",
			Extension: "txt",
			MimeType:  "text/plain",
			Size:      int64(len(welcome)),
			Text:      &welcome,
			ParentID:  &documentsFolder,
			UserID:    DemoUserID,
		},
	}

	for _, doc := range docs {
		var count int64
		if err := db.Model(&document.Document{}).Where("id = ?", doc.ID).Count(&count).Error; err != nil {
			return created, err
		}
		if count > 0 {
			continue
		}

		now := time.Now().UTC()
		doc.CreatedAt = now
		doc.LastModified = now
		doc.LastUpdated = now
		if err := db.Create(&doc).Error; err != nil {
			return created, err
		}
		created++
	}

	return created, nil
}
