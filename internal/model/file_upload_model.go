package model

import (
	"time"

	"github.com/google/uuid"
)

type FileUpload struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FileName         string    `gorm:"type:varchar(255);not null"`
	OriginalFileName string    `gorm:"type:varchar(255);not null"`
	ContentType      string    `gorm:"type:varchar(100);not null"`
	FileSizeBytes    int64     `gorm:"not null"`
	FilePath         string    `gorm:"type:varchar(500);not null"`
	SessionId        string    `gorm:"type:varchar(100);index"`
	ProcessedContent string    `gorm:"type:text"`
	IsProcessed      bool      `gorm:"not null;default:false"`
	UploadedAt       time.Time `gorm:"autoCreateTime"`
	ProcessedAt      *time.Time
}

func (FileUpload) TableName() string {
	return "file_uploads"
}
