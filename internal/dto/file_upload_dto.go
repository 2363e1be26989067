package dto

import (
	"time"

	"github.com/google/uuid"
)

type FileUploadResponse struct {
	Id               uuid.UUID  `json:"id"`
	FileName         string     `json:"file_name"`
	OriginalFileName string     `json:"original_file_name"`
	ContentType      string     `json:"content_type"`
	FileSizeBytes    int64      `json:"file_size_bytes"`
	SessionId        string     `json:"session_id,omitempty"`
	IsProcessed      bool       `json:"is_processed"`
	UploadedAt       time.Time  `json:"uploaded_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

type FileUploadResult struct {
	Files  []FileUploadResponse `json:"files"`
	Errors []string             `json:"errors"`
}
