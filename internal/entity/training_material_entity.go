package entity

import (
	"time"

	"github.com/google/uuid"
)

type TrainingMaterial struct {
	Id            uuid.UUID
	Title         string
	Category      string
	Content       string
	InternalNotes string // Admin-only, never rendered into a prompt
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	Attachments   []*TrainingMaterialAttachment
}

type TrainingMaterialAttachment struct {
	Id                 uuid.UUID
	TrainingMaterialId uuid.UUID
	FileUploadId       uuid.UUID
	Description        string
	AttachedAt         time.Time
	File               *FileUpload
}
