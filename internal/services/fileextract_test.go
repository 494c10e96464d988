package services

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type fakeMediaAI struct {
	transcript string
	imageText  string
	err        error

	audioMIME   string
	imageFormat string
}

func (f *fakeMediaAI) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.audioMIME = mimeType
	return f.transcript, f.err
}

func (f *fakeMediaAI) ExtractTextFromImage(ctx context.Context, image []byte, format string) (string, error) {
	f.imageFormat = format
	return f.imageText, f.err
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		fileName string
		want     MediaKind
	}{
		{"pdf mime", "application/pdf", "notes.bin", KindPDF},
		{"pdf extension", "application/octet-stream", "notes.PDF", KindPDF},
		{"docx mime", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "x", KindDocx},
		{"docx extension", "", "report.docx", KindDocx},
		{"text mime", "text/plain", "anything", KindText},
		{"markdown mime", "text/markdown", "readme", KindText},
		{"txt extension", "", "notes.txt", KindText},
		{"audio mime", "audio/mpeg", "x", KindAudio},
		{"mp3 extension", "", "lecture.mp3", KindAudio},
		{"image mime", "image/png", "x", KindImage},
		{"jpg extension", "", "slide.JPG", KindImage},
		{"unknown", "application/octet-stream", "data.bin", KindUnknown},
		{"empty everything", "", "", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectKind(tt.mimeType, tt.fileName); got != tt.want {
				t.Errorf("DetectKind(%q, %q) = %v, want %v", tt.mimeType, tt.fileName, got, tt.want)
			}
		})
	}
}

func TestExtractTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := "line one\r\n\r\n\r\n\r\n  line two  \r\nline three"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFileExtractService(nil)
	got, err := s.ExtractTextFromUpload(context.Background(), path, "text/plain", "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "line one\n\nline two\nline three"
	if got != want {
		t.Errorf("normalized text mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestExtractUnknownKind(t *testing.T) {
	s := NewFileExtractService(nil)
	got, err := s.ExtractTextFromUpload(context.Background(), "/nonexistent", "application/octet-stream", "data.bin")
	if err != nil {
		t.Fatalf("unknown kinds must not error, got %v", err)
	}
	if got != "" {
		t.Errorf("unknown kinds must yield empty text, got %q", got)
	}
}

func TestExtractDOCX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Hello &amp; welcome</w:t></w:r></w:p><w:p><w:r><w:t>Second paragraph</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s := NewFileExtractService(nil)
	got, err := s.ExtractTextFromUpload(context.Background(), path, "", "doc.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Hello & welcome\nSecond paragraph"
	if got != want {
		t.Errorf("docx text mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestExtractDOCX_MissingDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, _ := zw.Create("word/styles.xml")
	w.Write([]byte(`<w:styles/>`))
	zw.Close()
	f.Close()

	s := NewFileExtractService(nil)
	if _, err := s.ExtractTextFromUpload(context.Background(), path, "", "doc.docx"); err == nil {
		t.Fatal("expected error for docx without document.xml")
	}
}

func TestExtractAudio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.mp3")
	if err := os.WriteFile(path, []byte("fake audio bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	ai := &fakeMediaAI{transcript: "  transcribed speech  "}
	s := NewFileExtractService(ai)

	got, err := s.ExtractTextFromUpload(context.Background(), path, "", "lecture.mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "transcribed speech" {
		t.Errorf("expected normalized transcript, got %q", got)
	}
	if ai.audioMIME != "audio/mpeg" {
		t.Errorf("missing MIME should default to audio/mpeg, got %q", ai.audioMIME)
	}
}

func TestExtractAudio_Error(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lecture.wav")
	os.WriteFile(path, []byte("bytes"), 0o644)

	ai := &fakeMediaAI{err: errors.New("transcription quota exceeded")}
	s := NewFileExtractService(ai)

	if _, err := s.ExtractTextFromUpload(context.Background(), path, "audio/wav", "lecture.wav"); err == nil {
		t.Fatal("expected transcription error to propagate")
	}
}

func TestExtractImage_JPGFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slide.jpg")
	os.WriteFile(path, []byte("fake image bytes"), 0o644)

	ai := &fakeMediaAI{imageText: "text on the slide"}
	s := NewFileExtractService(ai)

	got, err := s.ExtractTextFromUpload(context.Background(), path, "image/jpeg", "slide.jpg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "text on the slide" {
		t.Errorf("unexpected image text: %q", got)
	}
	if ai.imageFormat != "jpeg" {
		t.Errorf("jpg extension must map to jpeg format, got %q", ai.imageFormat)
	}
}

func TestStripDOCXML(t *testing.T) {
	src := []byte(`<w:p><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p><w:p><w:r><w:t>&lt;tag&gt;</w:t></w:r></w:p>`)
	got := stripDOCXML(src)
	want := "a\tb\n<tag>\n"
	if got != want {
		t.Errorf("stripDOCXML mismatch:\ngot  %q\nwant %q", got, want)
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses blank runs", "a\n\n\n\nb", "a\n\nb"},
		{"trims line whitespace", "  a  \n\tb\t", "a\nb"},
		{"windows newlines", "a\r\nb\rc", "a\nb\nc"},
		{"empty", "   \n\n  ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeExtractedText(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
