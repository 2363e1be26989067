package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"onboarding-buddy-be/internal/constant"
	"onboarding-buddy-be/internal/dto"
	"onboarding-buddy-be/internal/entity"
	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/pkg/serverutils"
	"onboarding-buddy-be/internal/repository/specification"
	"onboarding-buddy-be/internal/repository/unitofwork"
	"onboarding-buddy-be/pkg/extract"
	"onboarding-buddy-be/pkg/llm"

	"github.com/google/uuid"
)

const fileUploadModule = "FileUploadService"

type IFileUploadService interface {
	// Upload stores every valid file and reports the rejected ones in Errors.
	Upload(ctx context.Context, sessionID string, files []*multipart.FileHeader) (*dto.FileUploadResult, error)
	Save(ctx context.Context, sessionID, originalFileName, declaredType string, data []byte) (*dto.FileUploadResponse, error)
	GetMetadata(ctx context.Context, id uuid.UUID) (*dto.FileUploadResponse, error)
	// ListBySession returns the files uploaded under sessionID, newest first.
	ListBySession(ctx context.Context, sessionID string) ([]*dto.FileUploadResponse, error)
	GetContent(ctx context.Context, id uuid.UUID) (*FileContent, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// LoadAttachments resolves uploaded file ids into chat attachments. Unknown ids are skipped.
	LoadAttachments(ctx context.Context, ids []uuid.UUID) ([]llm.Attachment, error)
}

type FileContent struct {
	FileName    string
	ContentType string
	Data        []byte
}

type fileUploadService struct {
	uowFactory unitofwork.RepositoryFactory
	uploadDir  string
	maxBytes   int64
	logger     logger.ILogger
}

func NewFileUploadService(
	uowFactory unitofwork.RepositoryFactory,
	uploadDir string,
	maxBytes int64,
	log logger.ILogger,
) IFileUploadService {
	if uploadDir == "" {
		uploadDir = constant.UploadDirectory
	}
	if maxBytes <= 0 {
		maxBytes = constant.DefaultUploadMaxBytes
	}
	return &fileUploadService{
		uowFactory: uowFactory,
		uploadDir:  uploadDir,
		maxBytes:   maxBytes,
		logger:     log,
	}
}

func (s *fileUploadService) Upload(ctx context.Context, sessionID string, files []*multipart.FileHeader) (*dto.FileUploadResult, error) {
	if len(files) == 0 {
		return nil, serverutils.NewBadRequestError("no files provided")
	}

	result := &dto.FileUploadResult{
		Files:  make([]dto.FileUploadResponse, 0, len(files)),
		Errors: make([]string, 0),
	}
	for _, header := range files {
		data, err := readHeader(header, s.maxBytes)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", header.Filename, err.Error()))
			continue
		}

		saved, err := s.Save(ctx, sessionID, header.Filename, header.Header.Get("Content-Type"), data)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", header.Filename, err.Error()))
			continue
		}
		result.Files = append(result.Files, *saved)
	}
	return result, nil
}

func readHeader(header *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	if header.Size > maxBytes {
		return nil, fileTooLarge(maxBytes)
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxBytes+1))
}

func fileTooLarge(maxBytes int64) error {
	return serverutils.NewPayloadTooLargeError(fmt.Sprintf("file exceeds the %d MB limit", maxBytes/(1024*1024)))
}

func (s *fileUploadService) validate(originalFileName string, data []byte) error {
	if strings.TrimSpace(originalFileName) == "" {
		return serverutils.NewBadRequestError("file name is required")
	}
	if len(data) == 0 {
		return serverutils.NewBadRequestError("file is empty")
	}
	if int64(len(data)) > s.maxBytes {
		return fileTooLarge(s.maxBytes)
	}
	ext := strings.ToLower(filepath.Ext(originalFileName))
	if !slices.Contains(constant.AllowedUploadExtensions, ext) {
		return serverutils.NewBadRequestError(fmt.Sprintf("file type %q is not allowed", ext))
	}
	return nil
}

func (s *fileUploadService) Save(ctx context.Context, sessionID, originalFileName, declaredType string, data []byte) (*dto.FileUploadResponse, error) {
	originalFileName = filepath.Base(originalFileName)
	if err := s.validate(originalFileName, data); err != nil {
		return nil, err
	}

	id := uuid.New()
	storedName := id.String() + strings.ToLower(filepath.Ext(originalFileName))
	path := filepath.Join(s.uploadDir, storedName)

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	contentType := extract.DetectContentType(data, declaredType)
	file := entity.FileUpload{
		Id:               id,
		FileName:         storedName,
		OriginalFileName: originalFileName,
		ContentType:      contentType,
		FileSizeBytes:    int64(len(data)),
		FilePath:         path,
		SessionId:        sessionID,
		UploadedAt:       time.Now(),
	}

	text, err := extract.Text(originalFileName, contentType, data)
	if err != nil {
		s.logger.Warn(fileUploadModule, "Text extraction failed", map[string]interface{}{
			"file_id":      id.String(),
			"content_type": contentType,
			"error":        err.Error(),
		})
	} else {
		processedAt := time.Now()
		file.ProcessedContent = text
		file.IsProcessed = true
		file.ProcessedAt = &processedAt
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FileUploadRepository().Create(ctx, &file); err != nil {
		_ = os.Remove(path)
		return nil, err
	}

	s.logger.Info(fileUploadModule, "File uploaded", map[string]interface{}{
		"file_id":      id.String(),
		"session_id":   sessionID,
		"content_type": contentType,
		"size_bytes":   file.FileSizeBytes,
		"processed":    file.IsProcessed,
	})
	return toFileResponse(&file), nil
}

func (s *fileUploadService) find(ctx context.Context, id uuid.UUID) (*entity.FileUpload, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	file, err := uow.FileUploadRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, serverutils.NewNotFoundError("file not found")
	}
	return file, nil
}

func (s *fileUploadService) GetMetadata(ctx context.Context, id uuid.UUID) (*dto.FileUploadResponse, error) {
	file, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toFileResponse(file), nil
}

func (s *fileUploadService) ListBySession(ctx context.Context, sessionID string) ([]*dto.FileUploadResponse, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, serverutils.NewBadRequestError("session id is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	files, err := uow.FileUploadRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionID},
		specification.OrderBy{Column: "uploaded_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.FileUploadResponse, 0, len(files))
	for _, f := range files {
		res = append(res, toFileResponse(f))
	}
	return res, nil
}

func (s *fileUploadService) GetContent(ctx context.Context, id uuid.UUID) (*FileContent, error) {
	file, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(file.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serverutils.NewNotFoundError("file content not found")
		}
		return nil, err
	}
	return &FileContent{
		FileName:    file.OriginalFileName,
		ContentType: file.ContentType,
		Data:        data,
	}, nil
}

func (s *fileUploadService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.FileUploadRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := os.Remove(file.FilePath); err != nil && !os.IsNotExist(err) {
		s.logger.Warn(fileUploadModule, "Failed to remove stored file", map[string]interface{}{
			"file_id": id.String(),
			"path":    file.FilePath,
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *fileUploadService) LoadAttachments(ctx context.Context, ids []uuid.UUID) ([]llm.Attachment, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	files, err := uow.FileUploadRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	if len(files) != len(ids) {
		s.logger.Warn(fileUploadModule, "Some attachments were not found", map[string]interface{}{
			"requested": len(ids),
			"found":     len(files),
		})
	}

	attachments := make([]llm.Attachment, 0, len(files))
	for _, f := range files {
		a := llm.Attachment{
			OriginalFileName: f.OriginalFileName,
			ContentType:      f.ContentType,
			ProcessedContent: f.ProcessedContent,
		}
		if f.IsImage() {
			data, err := os.ReadFile(f.FilePath)
			if err != nil {
				s.logger.Warn(fileUploadModule, "Failed to read image attachment", map[string]interface{}{
					"file_id": f.Id.String(),
					"error":   err.Error(),
				})
			} else {
				a.Data = data
			}
		}
		attachments = append(attachments, a)
	}
	return attachments, nil
}

func toFileResponse(f *entity.FileUpload) *dto.FileUploadResponse {
	return &dto.FileUploadResponse{
		Id:               f.Id,
		FileName:         f.FileName,
		OriginalFileName: f.OriginalFileName,
		ContentType:      f.ContentType,
		FileSizeBytes:    f.FileSizeBytes,
		SessionId:        f.SessionId,
		IsProcessed:      f.IsProcessed,
		UploadedAt:       f.UploadedAt,
		ProcessedAt:      f.ProcessedAt,
	}
}
