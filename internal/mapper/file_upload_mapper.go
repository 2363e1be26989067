package mapper

import (
	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/model"
)

type FileUploadMapper struct{}

func NewFileUploadMapper() *FileUploadMapper {
	return &FileUploadMapper{}
}

func (m *FileUploadMapper) ToEntity(f *model.FileUpload) *entity.FileUpload {
	if f == nil {
		return nil
	}
	return &entity.FileUpload{
		Id:               f.Id,
		FileName:         f.FileName,
		OriginalFileName: f.OriginalFileName,
		ContentType:      f.ContentType,
		FileSizeBytes:    f.FileSizeBytes,
		FilePath:         f.FilePath,
		SessionId:        f.SessionId,
		ProcessedContent: f.ProcessedContent,
		IsProcessed:      f.IsProcessed,
		UploadedAt:       f.UploadedAt,
		ProcessedAt:      f.ProcessedAt,
	}
}

func (m *FileUploadMapper) ToModel(f *entity.FileUpload) *model.FileUpload {
	if f == nil {
		return nil
	}
	return &model.FileUpload{
		Id:               f.Id,
		FileName:         f.FileName,
		OriginalFileName: f.OriginalFileName,
		ContentType:      f.ContentType,
		FileSizeBytes:    f.FileSizeBytes,
		FilePath:         f.FilePath,
		SessionId:        f.SessionId,
		ProcessedContent: f.ProcessedContent,
		IsProcessed:      f.IsProcessed,
		UploadedAt:       f.UploadedAt,
		ProcessedAt:      f.ProcessedAt,
	}
}

func (m *FileUploadMapper) ToEntities(models []*model.FileUpload) []*entity.FileUpload {
	entities := make([]*entity.FileUpload, 0, len(models))
	for _, f := range models {
		entities = append(entities, m.ToEntity(f))
	}
	return entities
}
