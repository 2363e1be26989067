// Package extract turns uploaded files into text the assistant can read.
package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gabriel-vasile/mimetype"
)

// MaxTextRunes caps how much extracted text is kept per file.
const MaxTextRunes = 100_000

type kind int

const (
	kindText kind = iota + 1
	kindHTML
	kindPDF
	kindDocument
	kindPresentation
	kindSpreadsheet
	kindImage
	kindAudio
	kindVideo
)

var kindsByExtension = map[string]kind{
	".txt": kindText, ".md": kindText, ".markdown": kindText, ".csv": kindText, ".json": kindText,
	".yaml": kindText, ".yml": kindText, ".xml": kindText,
	".html": kindHTML, ".htm": kindHTML,
	".pdf":  kindPDF,
	".doc":  kindDocument, ".docx": kindDocument, ".odt": kindDocument, ".rtf": kindDocument,
	".ppt": kindPresentation, ".pptx": kindPresentation, ".odp": kindPresentation,
	".xls": kindSpreadsheet, ".xlsx": kindSpreadsheet, ".ods": kindSpreadsheet,
	".jpg": kindImage, ".jpeg": kindImage, ".png": kindImage, ".gif": kindImage, ".webp": kindImage, ".bmp": kindImage,
	".mp3": kindAudio, ".wav": kindAudio, ".m4a": kindAudio, ".ogg": kindAudio,
	".mp4": kindVideo, ".avi": kindVideo, ".mov": kindVideo, ".wmv": kindVideo, ".webm": kindVideo,
}

// DetectContentType sniffs the MIME type from the file bytes, falling back to
// the declared type when sniffing only finds a generic binary type.
func DetectContentType(data []byte, declared string) string {
	detected := mimetype.Detect(data)
	if detected.Is("application/octet-stream") && declared != "" {
		return declared
	}
	if detected.Is("text/plain") && declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return detected.String()
}

// Text returns the readable text for a file. Binary formats we cannot parse
// get a one-line description so the assistant still knows the file exists.
func Text(fileName, contentType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	k, ok := kindsByExtension[ext]
	if !ok {
		if strings.HasPrefix(contentType, "image/") {
			k = kindImage
		} else if strings.HasPrefix(contentType, "text/") {
			k = kindText
		} else {
			return fmt.Sprintf("File: %s (%s) - Content uploaded for reference", fileName, contentType), nil
		}
	}

	switch k {
	case kindText:
		return plainText(data)
	case kindHTML:
		return htmlText(data)
	case kindPDF:
		return fmt.Sprintf("PDF document: %s - Content uploaded for reference", fileName), nil
	case kindDocument:
		return fmt.Sprintf("Document file: %s - Content uploaded for reference", fileName), nil
	case kindPresentation:
		return fmt.Sprintf("Presentation file: %s - Content uploaded for reference", fileName), nil
	case kindSpreadsheet:
		return fmt.Sprintf("Spreadsheet file: %s - Data uploaded for reference", fileName), nil
	case kindImage:
		return fmt.Sprintf("Image file: %s (%s) - Visual content available for analysis", fileName, contentType), nil
	case kindAudio:
		return fmt.Sprintf("Audio file: %s (%s) - Audio content uploaded for reference", fileName, contentType), nil
	case kindVideo:
		return fmt.Sprintf("Video file: %s (%s) - Video content uploaded for reference", fileName, contentType), nil
	}
	return "", fmt.Errorf("unhandled file kind for %s", fileName)
}

func plainText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return truncate(strings.TrimSpace(string(data))), nil
}

func htmlText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if trimmed := strings.Join(strings.Fields(line), " "); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return truncate(strings.Join(lines, "\n")), nil
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= MaxTextRunes {
		return s
	}
	return string([]rune(s)[:MaxTextRunes])
}
