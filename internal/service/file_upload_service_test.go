package service

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-buddy-be/internal/pkg/logger"
	"onboarding-buddy-be/internal/pkg/serverutils"
)

func newFileService(t *testing.T, maxBytes int64) (IFileUploadService, *memoryDB, string) {
	t.Helper()
	dir := t.TempDir()
	db := newMemoryDB()
	return NewFileUploadService(db, dir, maxBytes, logger.NewNopLogger()), db, dir
}

// Smallest valid PNG header; enough for content sniffing.
var pngBytes = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52}

func TestFileUploadService_SaveRejects(t *testing.T) {
	svc, _, _ := newFileService(t, 16)

	tests := []struct {
		name       string
		fileName   string
		data       []byte
		wantStatus int
	}{
		{"empty file", "notes.txt", nil, http.StatusBadRequest},
		{"disallowed extension", "run.exe", []byte("MZ"), http.StatusBadRequest},
		{"missing name", "", []byte("x"), http.StatusBadRequest},
		{"too large", "notes.txt", []byte(strings.Repeat("a", 17)), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Save(context.Background(), "s1", tt.fileName, "", tt.data)
			require.Error(t, err)
			assert.Equal(t, tt.wantStatus, serverutils.StatusOf(err))
		})
	}
}

func TestFileUploadService_SaveTextFile(t *testing.T) {
	svc, db, dir := newFileService(t, 0)

	res, err := svc.Save(context.Background(), "s1", "Parking.TXT", "text/plain", []byte("  Level 2, spot 14  "))
	require.NoError(t, err)

	assert.True(t, res.IsProcessed)
	assert.Equal(t, "Parking.TXT", res.OriginalFileName)
	assert.True(t, strings.HasSuffix(res.FileName, ".txt"))
	assert.Equal(t, "s1", res.SessionId)

	stored := db.files[res.Id]
	require.NotNil(t, stored)
	assert.Equal(t, "Level 2, spot 14", stored.ProcessedContent)
	assert.FileExists(t, stored.FilePath)
	assert.True(t, strings.HasPrefix(stored.FilePath, dir))

	content, err := svc.GetContent(context.Background(), res.Id)
	require.NoError(t, err)
	assert.Equal(t, "  Level 2, spot 14  ", string(content.Data))
}

func TestFileUploadService_InvalidUTF8IsStoredUnprocessed(t *testing.T) {
	svc, _, _ := newFileService(t, 0)

	res, err := svc.Save(context.Background(), "s1", "broken.txt", "text/plain", []byte{0xff, 0xfe, 0xfd})
	require.NoError(t, err)
	assert.False(t, res.IsProcessed)
}

func TestFileUploadService_LoadAttachments(t *testing.T) {
	svc, _, _ := newFileService(t, 0)
	ctx := context.Background()

	text, err := svc.Save(ctx, "s1", "faq.md", "text/markdown", []byte("# FAQ\nBadges at reception"))
	require.NoError(t, err)
	image, err := svc.Save(ctx, "s1", "badge.png", "image/png", pngBytes)
	require.NoError(t, err)

	attachments, err := svc.LoadAttachments(ctx, []uuid.UUID{text.Id, image.Id, uuid.New()})
	require.NoError(t, err)
	require.Len(t, attachments, 2)

	byName := map[string]int{}
	for i, a := range attachments {
		byName[a.OriginalFileName] = i
	}
	faq := attachments[byName["faq.md"]]
	assert.Contains(t, faq.ProcessedContent, "Badges at reception")
	assert.False(t, faq.IsInlineImage())

	badge := attachments[byName["badge.png"]]
	assert.Equal(t, "image/png", badge.ContentType)
	assert.Equal(t, pngBytes, badge.Data)
	assert.True(t, badge.IsInlineImage())

	none, err := svc.LoadAttachments(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileUploadService_Delete(t *testing.T) {
	svc, db, _ := newFileService(t, 0)
	res, err := svc.Save(context.Background(), "s1", "notes.txt", "", []byte("hello"))
	require.NoError(t, err)
	path := db.files[res.Id].FilePath

	require.NoError(t, svc.Delete(context.Background(), res.Id))

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
	_, err = svc.GetMetadata(context.Background(), res.Id)
	assert.Equal(t, http.StatusNotFound, serverutils.StatusOf(err))
}

func TestFileUploadService_ListBySession(t *testing.T) {
	svc, db, _ := newFileService(t, 0)
	ctx := context.Background()
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)

	names := []string{"first.txt", "second.txt", "third.txt"}
	for i, name := range names {
		res, err := svc.Save(ctx, "s1", name, "text/plain", []byte(name))
		require.NoError(t, err)
		db.files[res.Id].UploadedAt = base.Add(time.Duration(i) * time.Minute)
	}
	_, err := svc.Save(ctx, "s2", "other.txt", "text/plain", []byte("other"))
	require.NoError(t, err)

	files, err := svc.ListBySession(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "third.txt", files[0].OriginalFileName)
	assert.Equal(t, "second.txt", files[1].OriginalFileName)
	assert.Equal(t, "first.txt", files[2].OriginalFileName)

	none, err := svc.ListBySession(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = svc.ListBySession(ctx, " ")
	assert.Equal(t, http.StatusBadRequest, serverutils.StatusOf(err))
}
