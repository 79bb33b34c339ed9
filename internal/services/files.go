package services

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/KNehe/alx-files-manager/internal/models"
	"github.com/KNehe/alx-files-manager/internal/queue"
	"github.com/KNehe/alx-files-manager/internal/storage"
	"github.com/KNehe/alx-files-manager/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageSize is fixed; listing has no caller-controlled limit.
const PageSize = 20

// FileService orchestrates the metadata store, the content writer and the
// job notifier. All domain invariants are enforced here; handlers only map
// results onto the HTTP surface.
type FileService struct {
	DB       *gorm.DB
	Storage  *storage.LocalStorage
	Notifier queue.Notifier
}

func NewFileService(db *gorm.DB, store *storage.LocalStorage, notifier queue.Notifier) *FileService {
	return &FileService{DB: db, Storage: store, Notifier: notifier}
}

type UploadInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID string `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// Upload validates in a fixed order, writes bytes before metadata, and
// signals the thumbnail queue for images. The first violated rule wins.
func (s *FileService) Upload(ctx context.Context, user *models.User, in UploadInput) (*models.File, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	if in.Name == "" {
		return nil, NewValidationError("Missing name")
	}
	if !models.IsValidFileType(in.Type) {
		return nil, NewValidationError("Missing type")
	}
	fileType := models.FileType(in.Type)
	if in.Data == "" && fileType != models.FileTypeFolder {
		return nil, NewValidationError("Missing data")
	}

	var parentID *uuid.UUID
	// "0" is the root sentinel, same as leaving parentId out.
	if in.ParentID != "" && in.ParentID != "0" {
		parsed, err := uuid.Parse(in.ParentID)
		if err != nil {
			return nil, NewValidationError("Parent not found")
		}

		var parent models.File
		if err := s.DB.WithContext(ctx).First(&parent, "id = ?", parsed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("Parent not found")
			}
			return nil, err
		}
		if parent.Type != models.FileTypeFolder {
			return nil, NewValidationError("Parent is not a folder")
		}
		parentID = &parsed
	}

	file := models.File{
		Name:     in.Name,
		Type:     fileType,
		ParentID: parentID,
		IsPublic: in.IsPublic,
		UserID:   user.ID,
	}

	if fileType != models.FileTypeFolder {
		decoded, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, NewValidationError("Invalid data")
		}

		// Bytes land on disk before the record exists. A crash in between
		// leaves an orphaned file, never a record without content.
		path, err := s.Storage.Save(decoded)
		if err != nil {
			return nil, err
		}
		file.LocalPath = path
	}

	if err := s.DB.WithContext(ctx).Create(&file).Error; err != nil {
		return nil, err
	}

	logger.InfoWithUser(user.ID.String(), "file_created", map[string]interface{}{
		"file_id": file.ID.String(),
		"type":    file.Type,
		"name":    file.Name,
	})

	if fileType == models.FileTypeImage {
		// Best effort: a queue failure must not fail the upload.
		if err := s.Notifier.Enqueue(user.ID.String(), file.ID.String()); err != nil {
			logger.ErrorWithUser(user.ID.String(), "thumbnail_enqueue_failed", err, map[string]interface{}{
				"file_id": file.ID.String(),
			})
		}
	}

	return &file, nil
}

// List returns one fixed-size page of the user's files, optionally filtered
// by parent. parentID "0" selects root files; an unparseable parentID
// matches nothing. Ordering follows insertion order so repeated calls page
// reproducibly.
func (s *FileService) List(ctx context.Context, user *models.User, parentID string, page int) ([]models.File, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	if page < 1 {
		page = 1
	}

	query := s.DB.WithContext(ctx).Where("user_id = ?", user.ID)
	switch parentID {
	case "":
	case "0":
		query = query.Where("parent_id IS NULL")
	default:
		parsed, err := uuid.Parse(parentID)
		if err != nil {
			return []models.File{}, nil
		}
		query = query.Where("parent_id = ?", parsed)
	}

	files := make([]models.File, 0, PageSize)
	err := query.
		Order("created_at ASC, id ASC").
		Offset((page - 1) * PageSize).
		Limit(PageSize).
		Find(&files).Error
	if err != nil {
		return nil, err
	}

	return files, nil
}

// Show fetches a single file scoped to its owner. Anything the user does
// not own looks identical to a record that does not exist.
func (s *FileService) Show(ctx context.Context, user *models.User, id string) (*models.File, error) {
	if user == nil {
		return nil, ErrUnauthorized
	}

	fileID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ? AND user_id = ?", fileID, user.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &file, nil
}

// ReadContent returns the stored bytes of a file. Owners may always read;
// everyone else only when the file is public. Private files are reported
// as missing, not forbidden.
func (s *FileService) ReadContent(ctx context.Context, user *models.User, id string) ([]byte, *models.File, error) {
	fileID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	var file models.File
	if err := s.DB.WithContext(ctx).First(&file, "id = ?", fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	isOwner := user != nil && user.ID == file.UserID
	if !file.IsPublic && !isOwner {
		return nil, nil, ErrNotFound
	}

	if file.Type == models.FileTypeFolder {
		return nil, nil, NewValidationError("A folder doesn't have content")
	}

	if file.LocalPath == "" || !s.Storage.Exists(file.LocalPath) {
		return nil, nil, ErrNotFound
	}

	data, err := s.Storage.Read(file.LocalPath)
	if err != nil {
		return nil, nil, ErrNotFound
	}

	return data, &file, nil
}
