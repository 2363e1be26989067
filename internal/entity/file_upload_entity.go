package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type FileUpload struct {
	Id               uuid.UUID
	FileName         string
	OriginalFileName string
	ContentType      string
	FileSizeBytes    int64
	FilePath         string
	SessionId        string
	ProcessedContent string
	IsProcessed      bool
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

func (f *FileUpload) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.ContentType), "image/")
}
