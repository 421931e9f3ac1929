package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"cloudlens-backend/shared/database/models/document"
)

// FolderRepository provides access-controlled CRUD over folders. Folder
// semantics mirror the document ones, with two extras: the parent of a new
// or moved folder must be fully accessible to the caller, and sibling name
// uniqueness spans folders and extension-less files, case-insensitively.
// A nil folder id denotes the caller's root, which is always FullAccess.
type FolderRepository struct {
	store DocumentStore
}

func NewFolderRepository(store DocumentStore) *FolderRepository {
	return &FolderRepository{store: store}
}

// GetFolder loads a folder on behalf of a user
func (r *FolderRepository) GetFolder(ctx context.Context, userID, id uuid.UUID) (AccessResult, *document.Folder, error) {
	folder, err := r.store.GetFolder(ctx, id)
	if err != nil {
		return AccessUnknown, nil, err
	}
	if folder == nil {
		return AccessNotFound, nil, nil
	}

	if folder.IsDeleted && folder.UserID != userID {
		return AccessNotFound, nil, nil
	}

	access := accessFor(userID, folder.UserID, folder.IsPublic)
	if access == AccessNotPermitted {
		return AccessNotPermitted, nil, nil
	}

	return access, folder, nil
}

// checkParentAccess verifies the caller has FullAccess to the target parent.
// A nil parent is the caller's root and is implicitly fully accessible.
func (r *FolderRepository) checkParentAccess(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}

	parent, err := r.store.GetFolder(ctx, *parentID)
	if err != nil {
		return err
	}
	if parent == nil || parent.IsDeleted {
		return ErrParentNotPermitted
	}
	if accessFor(userID, parent.UserID, parent.IsPublic) != AccessFull {
		return ErrParentNotPermitted
	}

	return nil
}

// siblingConflict finds a non-deleted folder or extension-less document with
// the same name under the same parent
func (r *FolderRepository) siblingConflict(ctx context.Context, userID uuid.UUID, parentID *uuid.UUID, name string) (*document.Folder, bool, error) {
	folder, err := r.store.FindFolderByName(ctx, userID, parentID, name)
	if err != nil {
		return nil, false, err
	}
	if folder != nil {
		return folder, true, nil
	}

	doc, err := r.store.FindDocumentByName(ctx, userID, parentID, name, "")
	if err != nil {
		return nil, false, err
	}

	return nil, doc != nil, nil
}

// IndexFolder upserts a folder and returns its id. An id the caller cannot
// fully access is cleared, matching the document upsert policy.
func (r *FolderRepository) IndexFolder(ctx context.Context, userID uuid.UUID, folder *document.Folder) (uuid.UUID, error) {
	folder.Name = strings.TrimSpace(folder.Name)

	if err := r.checkParentAccess(ctx, userID, folder.ParentID); err != nil {
		return uuid.Nil, err
	}

	needsConflictCheck := true

	if folder.ID != uuid.Nil {
		existing, err := r.store.GetFolder(ctx, folder.ID)
		if err != nil {
			return uuid.Nil, err
		}

		if existing == nil || accessFor(userID, existing.UserID, existing.IsPublic) != AccessFull {
			folder.ID = uuid.Nil
		} else {
			needsConflictCheck = !strings.EqualFold(existing.Name, folder.Name) ||
				!sameParent(existing.ParentID, folder.ParentID)
			folder.CreatedAt = existing.CreatedAt
		}
	}

	if needsConflictCheck {
		conflict, taken, err := r.siblingConflict(ctx, userID, folder.ParentID, folder.Name)
		if err != nil {
			return uuid.Nil, err
		}

		if taken {
			if conflict == nil {
				// Name held by a document; never overwrite a file with a folder
				return uuid.Nil, ErrNameConflict
			}
			if folder.ID != uuid.Nil && folder.ID != conflict.ID {
				return uuid.Nil, ErrNameConflict
			}

			folder.ID = conflict.ID
			folder.ParentID = conflict.ParentID
			folder.CreatedAt = conflict.CreatedAt
		}
	}

	folder.UserID = userID
	folder.IsDeleted = false
	folder.LastUpdated = time.Now().UTC()

	if err := r.store.UpsertFolder(ctx, folder); err != nil {
		return uuid.Nil, err
	}

	return folder.ID, nil
}

// DeleteFolder soft-deletes a folder. Requires FullAccess; children keep
// their ParentID and surface again if the folder is restored.
func (r *FolderRepository) DeleteFolder(ctx context.Context, userID, id uuid.UUID) (AccessResult, error) {
	folder, err := r.store.GetFolder(ctx, id)
	if err != nil {
		return AccessUnknown, err
	}
	if folder == nil || folder.IsDeleted && folder.UserID != userID {
		return AccessNotFound, nil
	}

	access := accessFor(userID, folder.UserID, folder.IsPublic)
	if access != AccessFull {
		return access, nil
	}

	folder.IsDeleted = true
	folder.LastUpdated = time.Now().UTC()

	if err := r.store.UpsertFolder(ctx, folder); err != nil {
		return AccessUnknown, err
	}

	return AccessFull, nil
}

// GetFolderContents lists the folders and documents directly under a folder.
// A nil id lists the caller's root.
func (r *FolderRepository) GetFolderContents(ctx context.Context, userID uuid.UUID, id *uuid.UUID) (AccessResult, []document.Folder, []document.Document, error) {
	ownerID := userID

	if id != nil {
		access, folder, err := r.GetFolder(ctx, userID, *id)
		if err != nil {
			return AccessUnknown, nil, nil, err
		}
		if !access.CanRead() {
			return access, nil, nil, nil
		}
		ownerID = folder.UserID
	}

	folders, err := r.store.ListFoldersByParent(ctx, ownerID, id)
	if err != nil {
		return AccessUnknown, nil, nil, err
	}

	documents, err := r.store.ListDocumentsByParent(ctx, ownerID, id)
	if err != nil {
		return AccessUnknown, nil, nil, err
	}

	access := AccessFull
	if ownerID != userID {
		access = AccessReadOnly
	}

	return access, folders, documents, nil
}
