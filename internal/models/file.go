package models

import "github.com/google/uuid"

type FileType string

const (
	FileTypeFolder FileType = "folder"
	FileTypeFile   FileType = "file"
	FileTypeImage  FileType = "image"
)

func IsValidFileType(value string) bool {
	switch FileType(value) {
	case FileTypeFolder, FileTypeFile, FileTypeImage:
		return true
	default:
		return false
	}
}

type File struct {
	BaseModel
	Name     string     `json:"name" gorm:"type:varchar(255);not null"`
	Type     FileType   `json:"type" gorm:"type:varchar(20);not null;index"`
	ParentID *uuid.UUID `json:"parentID,omitempty" gorm:"type:uuid;index"`
	IsPublic bool       `json:"isPublic" gorm:"not null;default:false"`
	UserID   uuid.UUID  `json:"userID" gorm:"type:uuid;not null;index"`

	// LocalPath is where the bytes live on disk. Set only for file and
	// image types, never serialized.
	LocalPath string `json:"-" gorm:"type:text"`

	Parent   *File  `json:"-" gorm:"foreignKey:ParentID"`
	Children []File `json:"-" gorm:"foreignKey:ParentID"`
	Owner    User   `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// FileView is the public response shape of a File. The internal identifier
// is renamed to id, a root parent is rendered as the number 0 and a non-root
// parent as its uuid string, and the local path is omitted entirely.
type FileView struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Type     FileType    `json:"type"`
	ParentID interface{} `json:"parentId"`
	IsPublic bool        `json:"isPublic"`
	UserID   string      `json:"userId"`
}

func (f *File) View() FileView {
	var parent interface{} = 0
	if f.ParentID != nil {
		parent = f.ParentID.String()
	}
	return FileView{
		ID:       f.ID.String(),
		Name:     f.Name,
		Type:     f.Type,
		ParentID: parent,
		IsPublic: f.IsPublic,
		UserID:   f.UserID.String(),
	}
}
