package services

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MediaKind discriminates the extraction strategy for an upload. Dispatch is
// keyed on this tag instead of a growing conditional chain so new formats
// slot in as one more case.
type MediaKind int

const (
	KindUnknown MediaKind = iota
	KindPDF
	KindDocx
	KindText
	KindAudio
	KindImage
)

// mediaAI is the slice of the generation client the extractor needs for
// audio and image inputs.
type mediaAI interface {
	TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error)
	ExtractTextFromImage(ctx context.Context, image []byte, format string) (string, error)
}

type FileExtractService struct {
	ai mediaAI
}

func NewFileExtractService(ai mediaAI) *FileExtractService {
	return &FileExtractService{ai: ai}
}

var audioExts = map[string]bool{".mp3": true, ".wav": true, ".m4a": true, ".ogg": true, ".flac": true}
var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true}

// DetectKind resolves the media kind from the declared MIME type first, then
// the original file name's extension.
func DetectKind(mimeType, originalName string) MediaKind {
	ext := strings.ToLower(filepath.Ext(originalName))

	switch {
	case mimeType == "application/pdf" || ext == ".pdf":
		return KindPDF
	case mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == ".docx":
		return KindDocx
	case strings.HasPrefix(mimeType, "text/") || ext == ".txt":
		return KindText
	case strings.HasPrefix(mimeType, "audio/") || audioExts[ext]:
		return KindAudio
	case strings.HasPrefix(mimeType, "image/") || imageExts[ext]:
		return KindImage
	default:
		return KindUnknown
	}
}

// ExtractTextFromUpload produces a best-effort plain text rendering of the
// uploaded file. Unknown kinds yield empty text with no error; decoding
// failures are returned so the caller can log them, but the pipeline treats
// any failure the same as empty text.
func (s *FileExtractService) ExtractTextFromUpload(ctx context.Context, path, mimeType, originalName string) (string, error) {
	switch DetectKind(mimeType, originalName) {
	case KindPDF:
		return s.extractPDF(path)
	case KindDocx:
		return s.extractDOCX(path)
	case KindText:
		return s.extractTXT(path)
	case KindAudio:
		return s.extractAudio(ctx, path, mimeType)
	case KindImage:
		return s.extractImage(ctx, path, mimeType, originalName)
	default:
		return "", nil
	}
}

func (s *FileExtractService) extractTXT(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return normalizeExtractedText(string(b)), nil
}

func (s *FileExtractService) extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var b strings.Builder
	totalPage := reader.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}

	return normalizeExtractedText(b.String()), nil
}

func (s *FileExtractService) extractDOCX(path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	var documentXML []byte
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			rc, err := f.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()

			documentXML, err = io.ReadAll(rc)
			if err != nil {
				return "", err
			}
			break
		}
	}

	if len(documentXML) == 0 {
		return "", fmt.Errorf("docx document.xml not found")
	}

	return normalizeExtractedText(stripDOCXML(documentXML)), nil
}

func (s *FileExtractService) extractAudio(ctx context.Context, path, mimeType string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if mimeType == "" || !strings.HasPrefix(mimeType, "audio/") {
		mimeType = "audio/mpeg"
	}

	text, err := s.ai.TranscribeAudio(ctx, data, mimeType)
	if err != nil {
		return "", err
	}
	return normalizeExtractedText(text), nil
}

func (s *FileExtractService) extractImage(ctx context.Context, path, mimeType, originalName string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(originalName)), ".")
	if format == "jpg" {
		format = "jpeg"
	}
	if format == "" {
		format = strings.TrimPrefix(mimeType, "image/")
	}

	text, err := s.ai.ExtractTextFromImage(ctx, data, format)
	if err != nil {
		return "", err
	}
	return normalizeExtractedText(text), nil
}

var xmlTagPattern = regexp.MustCompile(`<[^>]+>`)

func stripDOCXML(src []byte) string {
	s := string(src)

	// DOCX paragraphs and line breaks
	s = strings.ReplaceAll(s, "</w:p>", "\n")
	s = strings.ReplaceAll(s, "<w:br/>", "\n")
	s = strings.ReplaceAll(s, "<w:br />", "\n")
	s = strings.ReplaceAll(s, "<w:tab/>", "\t")

	// Remove all xml tags
	s = xmlTagPattern.ReplaceAllString(s, "")

	// Basic XML entities
	replacer := strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&apos;", "'",
	)
	s = replacer.Replace(s)

	return s
}

func normalizeExtractedText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	buf := bytes.Buffer{}

	emptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			emptyCount++
			if emptyCount > 1 {
				continue
			}
			buf.WriteString("\n")
			continue
		}
		emptyCount = 0
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
