package model

import (
	"time"

	"github.com/google/uuid"
)

type TrainingMaterial struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Category      string    `gorm:"type:varchar(100);not null;index"`
	Content       string    `gorm:"type:text"`
	InternalNotes string    `gorm:"type:text"`
	IsActive      bool      `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     *time.Time

	Attachments []TrainingMaterialAttachment `gorm:"foreignKey:TrainingMaterialId;constraint:OnDelete:CASCADE"`
}

func (TrainingMaterial) TableName() string {
	return "training_materials"
}

type TrainingMaterialAttachment struct {
	Id                 uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TrainingMaterialId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_material_file"`
	FileUploadId       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_material_file"`
	Description        string    `gorm:"type:varchar(500)"`
	AttachedAt         time.Time `gorm:"autoCreateTime"`

	FileUpload *FileUpload `gorm:"foreignKey:FileUploadId;constraint:OnDelete:CASCADE"`
}

func (TrainingMaterialAttachment) TableName() string {
	return "training_material_attachments"
}
