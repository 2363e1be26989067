package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTrainingMaterialRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Category      string `json:"category" validate:"required,max=100"`
	Content       string `json:"content"`
	InternalNotes string `json:"internal_notes"`
	IsActive      *bool  `json:"is_active"`
}

type UpdateTrainingMaterialRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Category      string `json:"category" validate:"required,max=100"`
	Content       string `json:"content"`
	InternalNotes string `json:"internal_notes"`
	IsActive      *bool  `json:"is_active"`
}

type AttachFileRequest struct {
	FileUploadId uuid.UUID `json:"file_upload_id" validate:"required"`
	Description  string    `json:"description" validate:"max=500"`
}

type TrainingMaterialResponse struct {
	Id            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	Category      string               `json:"category"`
	Content       string               `json:"content"`
	InternalNotes string               `json:"internal_notes"`
	IsActive      bool                 `json:"is_active"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     *time.Time           `json:"updated_at"`
	Attachments   []AttachmentResponse `json:"attachments"`
}

type AttachmentResponse struct {
	Id               uuid.UUID `json:"id"`
	FileUploadId     uuid.UUID `json:"file_upload_id"`
	FileName         string    `json:"file_name"`
	OriginalFileName string    `json:"original_file_name"`
	FileSizeBytes    int64     `json:"file_size_bytes"`
	ContentType      string    `json:"content_type"`
	AttachedAt       time.Time `json:"attached_at"`
	Description      string    `json:"description,omitempty"`
	IsProcessed      bool      `json:"is_processed"`
}

// ListTrainingMaterialsQuery pages the material listing. A zero Limit returns every material.
type ListTrainingMaterialsQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// TrainingMaterialsChangedMessage is the payload of the material-changed event.
type TrainingMaterialsChangedMessage struct {
	MaterialId     uuid.UUID `json:"material_id"`
	Action         string    `json:"action"`
	OriginInstance string    `json:"origin_instance"`
	OccurredAt     time.Time `json:"occurred_at"`
}
