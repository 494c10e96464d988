package handlers

import (
	"context"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"notesgenie-backend/internal/middleware"
	"notesgenie-backend/internal/models"
	"notesgenie-backend/internal/services"
)

const (
	// minExtractedChars is the only quality gate on input: shorter extractions
	// are rejected before any generation call.
	minExtractedChars = 20

	// maxExtractedChars caps the text fed into generation prompts. This is a
	// token budget guard, not summarization.
	maxExtractedChars = 4000
)

type textExtractor interface {
	ExtractTextFromUpload(ctx context.Context, path, mimeType, originalName string) (string, error)
}

type notesGenerator interface {
	GenerateNotes(ctx context.Context, style, text string) (string, error)
	GenerateQuiz(ctx context.Context, notes string) ([]models.QuizQuestion, error)
}

type diagramGenerator interface {
	GenerateDiagram(ctx context.Context, topic string) (string, error)
}

type noteCreator interface {
	Create(ctx context.Context, n *models.Note) error
}

// UploadHandler runs the upload-and-generate pipeline: ingest the file,
// extract text, generate notes, optionally a diagram and a quiz, persist the
// note, and always remove the transient file.
type UploadHandler struct {
	extractor   textExtractor
	generator   notesGenerator
	diagrams    diagramGenerator
	noteRepo    noteCreator
	storagePath string
	maxUploadMB int
}

func NewUploadHandler(
	extractor textExtractor,
	generator notesGenerator,
	diagrams diagramGenerator,
	noteRepo noteCreator,
	storagePath string,
	maxUploadMB int,
) *UploadHandler {
	return &UploadHandler{
		extractor:   extractor,
		generator:   generator,
		diagrams:    diagrams,
		noteRepo:    noteRepo,
		storagePath: storagePath,
		maxUploadMB: maxUploadMB,
	}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	maxBytes := int64(h.maxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file uploaded", r))
		return
	}
	defer file.Close()

	generateDiagram := r.FormValue("generateDiagram") == "true"
	generateQuiz := r.FormValue("generateQuiz") == "true"
	studyStyle := services.ValidStudyStyle(r.FormValue("studyStyle"))

	// Step 1: stage the file on transient storage
	path, err := h.saveUpload(file, header.Filename)
	if err != nil {
		log.Printf("upload: failed to stage file: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to store uploaded file", r))
		return
	}
	// Cleanup runs on every exit path below
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Printf("upload: failed to remove transient file %s: %v", path, err)
		}
	}()

	ctx := r.Context()
	mimeType := header.Header.Get("Content-Type")

	// Step 2: extract text, best-effort. Errors degrade to empty text and
	// fall into the minimum-length gate.
	text, err := h.extractor.ExtractTextFromUpload(ctx, path, mimeType, header.Filename)
	if err != nil {
		log.Printf("upload: text extraction failed for %s: %v", header.Filename, err)
		text = ""
	}
	text = strings.TrimSpace(text)

	if utf8.RuneCountInString(text) < minExtractedChars {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Could not extract enough readable text from the file", r))
		return
	}

	// Step 3: truncate before building any prompt
	text = truncateRunes(text, maxExtractedChars)

	// Step 4: mandatory notes generation; failure fails the request and no
	// note is persisted
	notes, err := h.generator.GenerateNotes(ctx, studyStyle, text)
	if err != nil {
		log.Printf("upload: notes generation failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("GENERATION_ERROR", "Failed to generate notes", r))
		return
	}

	// Step 5: optional diagram, never fatal
	diagramURL := ""
	if generateDiagram {
		topic := services.DiagramTopic(studyStyle, text)
		diagramURL, err = h.diagrams.GenerateDiagram(ctx, topic)
		if err != nil {
			log.Printf("upload: diagram generation failed: %v", err)
			diagramURL = ""
		}
	}

	// Step 6: optional quiz, never fatal
	quiz := []models.QuizQuestion{}
	if generateQuiz {
		generated, err := h.generator.GenerateQuiz(ctx, notes)
		if err != nil {
			log.Printf("upload: quiz generation failed: %v", err)
		} else if generated != nil {
			quiz = generated
		}
	}

	// Step 7: persist the note for the authenticated owner
	note := &models.Note{
		UserID:     middleware.GetUserID(ctx),
		FileName:   header.Filename,
		Notes:      notes,
		DiagramURL: diagramURL,
	}
	if err := h.noteRepo.Create(ctx, note); err != nil {
		log.Printf("upload: failed to persist note: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to save note", r))
		return
	}

	writeJSON(w, http.StatusOK, models.UploadResponse{
		Notes:      notes,
		DiagramURL: diagramURL,
		Quiz:       quiz,
		NoteID:     note.ID,
	})
}

func (h *UploadHandler) saveUpload(file multipart.File, originalName string) (string, error) {
	if err := os.MkdirAll(h.storagePath, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(h.storagePath, uuid.New().String()+filepath.Ext(originalName))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}

	return path, dst.Close()
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
