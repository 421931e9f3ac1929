package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

func TestIndexFolder_RootParentIsImplicitlyAccessible(t *testing.T) {
	store := newMemStore()
	repo := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()

	id, err := repo.IndexFolder(ctx, owner, &document.Folder{Name: "Documents"})
	if err != nil {
		t.Fatalf("index at root failed: %v", err)
	}
	if store.folders[id].UserID != owner {
		t.Errorf("folder owner = %v, want %v", store.folders[id].UserID, owner)
	}
}

func TestIndexFolder_ParentMustBeFullAccess(t *testing.T) {
	store := newMemStore()
	repo := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	// A public folder grants ReadOnly to non-owners, which is not enough
	// to create children in it
	parent := &document.Folder{ID: uuid.New(), Name: "Shared", UserID: owner, IsPublic: true}
	store.UpsertFolder(ctx, parent)

	parentID := parent.ID
	_, err := repo.IndexFolder(ctx, stranger, &document.Folder{Name: "Sub", ParentID: &parentID})
	if !errors.Is(err, ErrParentNotPermitted) {
		t.Fatalf("err = %v, want ErrParentNotPermitted", err)
	}

	// The owner can
	if _, err := repo.IndexFolder(ctx, owner, &document.Folder{Name: "Sub", ParentID: &parentID}); err != nil {
		t.Fatalf("owner create under own folder failed: %v", err)
	}

	// A missing parent is refused too
	missing := uuid.New()
	_, err = repo.IndexFolder(ctx, owner, &document.Folder{Name: "Orphan", ParentID: &missing})
	if !errors.Is(err, ErrParentNotPermitted) {
		t.Fatalf("err = %v, want ErrParentNotPermitted", err)
	}
}

func TestIndexFolder_SiblingUniquenessIsCaseInsensitive(t *testing.T) {
	store := newMemStore()
	repo := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()

	firstID, err := repo.IndexFolder(ctx, owner, &document.Folder{Name: "Photos"})
	if err != nil {
		t.Fatalf("first index failed: %v", err)
	}

	// Re-indexing the same name without an id overwrites rather than duplicating
	secondID, err := repo.IndexFolder(ctx, owner, &document.Folder{Name: "PHOTOS"})
	if err != nil {
		t.Fatalf("second index failed: %v", err)
	}
	if secondID != firstID {
		t.Errorf("case-variant name created a duplicate: %v != %v", secondID, firstID)
	}
}

func TestIndexFolder_NameConflictWithExtensionlessFile(t *testing.T) {
	store := newMemStore()
	folders := NewFolderRepository(store)
	docs := NewDocumentRepository(store)
	ctx := context.Background()

	owner := uuid.New()

	if _, err := docs.IndexDocument(ctx, owner, &document.Document{Name: "Makefile"}); err != nil {
		t.Fatalf("document index failed: %v", err)
	}

	_, err := folders.IndexFolder(ctx, owner, &document.Folder{Name: "makefile"})
	if !errors.Is(err, ErrNameConflict) {
		t.Fatalf("err = %v, want ErrNameConflict", err)
	}
}

func TestGetFolder_Access(t *testing.T) {
	store := newMemStore()
	repo := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()
	stranger := uuid.New()

	private := &document.Folder{ID: uuid.New(), Name: "Private", UserID: owner}
	store.UpsertFolder(ctx, private)

	access, folder, err := repo.GetFolder(ctx, stranger, private.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != AccessNotPermitted || folder != nil {
		t.Errorf("access = %v, folder present = %v; want NotPermitted without folder", access, folder != nil)
	}

	access, folder, _ = repo.GetFolder(ctx, owner, private.ID)
	if access != AccessFull || folder == nil {
		t.Errorf("owner access = %v, want FullAccess with folder", access)
	}
}

func TestDeleteFolder(t *testing.T) {
	store := newMemStore()
	repo := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()
	folder := &document.Folder{ID: uuid.New(), Name: "Temp", UserID: owner}
	store.UpsertFolder(ctx, folder)

	access, err := repo.DeleteFolder(ctx, uuid.New(), folder.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != AccessNotPermitted {
		t.Errorf("stranger delete access = %v, want NotPermitted", access)
	}

	access, err = repo.DeleteFolder(ctx, owner, folder.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != AccessFull {
		t.Errorf("owner delete access = %v, want FullAccess", access)
	}
	if !store.folders[folder.ID].IsDeleted {
		t.Error("folder was not soft-deleted")
	}
}

func TestGetFolderContents(t *testing.T) {
	store := newMemStore()
	folders := NewFolderRepository(store)
	ctx := context.Background()

	owner := uuid.New()

	parent := &document.Folder{ID: uuid.New(), Name: "Parent", UserID: owner}
	store.UpsertFolder(ctx, parent)
	parentID := parent.ID

	child := &document.Folder{ID: uuid.New(), Name: "Child", UserID: owner, ParentID: &parentID}
	store.UpsertFolder(ctx, child)

	doc := &document.Document{ID: uuid.New(), Name: "inside", Extension: "txt", UserID: owner, ParentID: &parentID}
	store.UpsertDocument(ctx, doc)

	rootDoc := &document.Document{ID: uuid.New(), Name: "top", Extension: "txt", UserID: owner}
	store.UpsertDocument(ctx, rootDoc)

	access, childFolders, childDocs, err := folders.GetFolderContents(ctx, owner, &parentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != AccessFull {
		t.Errorf("access = %v, want FullAccess", access)
	}
	if len(childFolders) != 1 || len(childDocs) != 1 {
		t.Errorf("contents = %d folders, %d docs; want 1 and 1", len(childFolders), len(childDocs))
	}

	// Nil id lists the caller's root
	access, rootFolders, rootDocs, err := folders.GetFolderContents(ctx, owner, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if access != AccessFull {
		t.Errorf("root access = %v, want FullAccess", access)
	}
	if len(rootFolders) != 1 || len(rootDocs) != 1 {
		t.Errorf("root contents = %d folders, %d docs; want 1 and 1", len(rootFolders), len(rootDocs))
	}
}
