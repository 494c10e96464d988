package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"notesgenie-backend/internal/models"
)

// Study styles accepted by the upload pipeline.
const (
	StyleBasic      = "basic"
	StyleDetailed   = "detailed"
	StyleCheatsheet = "cheatsheet"
)

// diagramTopicMax is the provider-imposed ceiling on image prompts.
const diagramTopicMax = 1000

// GeminiService is the adapter for every text capability the pipeline
// consumes: notes generation, quiz extraction, notes Q&A, audio
// transcription and image-to-text. It is stateless and performs no retries.
type GeminiService struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiService(apiKey, modelName string) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	return &GeminiService{
		client: client,
		model:  model,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// GenerateNotes produces study notes from extracted text. This is the one
// mandatory generation step: the caller fails the whole request on error.
func (s *GeminiService) GenerateNotes(ctx context.Context, style, text string) (string, error) {
	prompt := buildNotesPrompt(style, text)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	notes := strings.TrimSpace(extractText(resp))
	if notes == "" {
		return "", fmt.Errorf("Gemini returned empty notes")
	}

	return notes, nil
}

// GenerateQuiz asks for exactly five multiple-choice questions as a JSON
// array. The model's output is free-form text, so the array substring is
// located and parsed best-effort: an unparseable response yields an empty
// quiz and a nil error. Only transport/API failures are returned as errors.
func (s *GeminiService) GenerateQuiz(ctx context.Context, notes string) ([]models.QuizQuestion, error) {
	prompt := buildQuizPrompt(notes)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return parseQuizJSON(extractText(resp)), nil
}

// AnswerFromNotes answers a question strictly from the supplied notes text.
func (s *GeminiService) AnswerFromNotes(ctx context.Context, notes, question string) (string, error) {
	prompt := fmt.Sprintf(`You are a helpful assistant that answers questions based only on the provided study notes. If the notes do not contain the answer, say so.

Notes:
%s

Question: %s`, notes, question)

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	answer := strings.TrimSpace(extractText(resp))
	if answer == "" {
		return "", fmt.Errorf("Gemini returned empty answer")
	}

	return answer, nil
}

// TranscribeAudio uploads audio bytes through the Gemini File API and asks
// for a verbatim transcript.
func (s *GeminiService) TranscribeAudio(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}

	file, err := s.client.UploadFile(ctx, "", bytes.NewReader(audio), &genai.UploadFileOptions{
		DisplayName: "uploaded-audio",
		MIMEType:    mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload audio to Gemini: %w", err)
	}

	// Ensure remote file is cleaned up
	defer s.client.DeleteFile(context.Background(), file.Name)

	// Wait until file is active
	for i := 0; i < 20; i++ {
		current, getErr := s.client.GetFile(ctx, file.Name)
		if getErr != nil {
			return "", fmt.Errorf("failed to get uploaded file status: %w", getErr)
		}

		if current.State == genai.FileStateActive {
			file = current
			break
		}
		if current.State == genai.FileStateFailed {
			return "", fmt.Errorf("Gemini failed to process uploaded audio file")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}

	if file.State != genai.FileStateActive {
		return "", fmt.Errorf("audio file did not become active in time")
	}

	prompt := "Transcribe the provided audio verbatim. Return plain text only, without markdown, headers, or explanations."

	resp, err := s.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.FileData{MIMEType: mimeType, URI: file.URI},
	)
	if err != nil {
		return "", fmt.Errorf("Gemini transcription error: %w", err)
	}

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", fmt.Errorf("Gemini returned empty transcription")
	}

	return text, nil
}

// ExtractTextFromImage asks the vision-capable model for the verbatim text
// visible in the image. format is the bare extension ("png", "jpeg").
func (s *GeminiService) ExtractTextFromImage(ctx context.Context, image []byte, format string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("image payload is empty")
	}

	prompt := "Extract all text visible in this image verbatim. Return plain text only, without commentary."

	resp, err := s.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.ImageData(format, image),
	)
	if err != nil {
		return "", fmt.Errorf("Gemini vision error: %w", err)
	}

	return strings.TrimSpace(extractText(resp)), nil
}

// DiagramTopic derives the image-generation prompt from the notes prompt,
// truncated to the provider's character ceiling.
func DiagramTopic(style, text string) string {
	topic := "Create a clear educational diagram illustrating: " + buildNotesPrompt(style, text)
	if len(topic) > diagramTopicMax {
		topic = topic[:diagramTopicMax]
	}
	return topic
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func buildNotesPrompt(style, text string) string {
	var b strings.Builder

	b.WriteString("You are a helpful academic note generator.\n\n")

	switch style {
	case StyleDetailed:
		b.WriteString("Generate detailed study notes from the following content. Cover every topic thoroughly with explanations, examples, and definitions.\n")
	case StyleCheatsheet:
		b.WriteString("Generate a compact cheat-sheet from the following content. Only key facts, formulas, and terms, in the densest usable form.\n")
	default:
		b.WriteString("Generate basic study notes from the following content.\n")
	}

	b.WriteString("Organize them with headings, bullet points, and key highlights:\n\n")
	b.WriteString(text)

	return b.String()
}

func buildQuizPrompt(notes string) string {
	return fmt.Sprintf(`Create 5 multiple-choice questions in JSON array format from these notes.
Each question must have 'question', 'options' (array of exactly 4 strings), and 'answer' fields only, where 'answer' is the correct option text.
Return only valid JSON, no preamble, no markdown, no backticks:

%s`, notes)
}

// parseQuizJSON pulls a JSON array out of free-form model text. The model is
// not trusted to return clean JSON; anything unparseable becomes an empty
// quiz rather than an error.
func parseQuizJSON(raw string) []models.QuizQuestion {
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var questions []models.QuizQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		// Try to extract the JSON array substring
		start := strings.Index(raw, "[")
		end := strings.LastIndex(raw, "]")
		if start >= 0 && end > start {
			json.Unmarshal([]byte(raw[start:end+1]), &questions)
		}
	}

	return validateQuizQuestions(questions)
}

func validateQuizQuestions(questions []models.QuizQuestion) []models.QuizQuestion {
	valid := make([]models.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if q.Question == "" || len(q.Options) != 4 || q.Answer == "" {
			continue
		}
		valid = append(valid, q)
	}
	return valid
}

// ValidStudyStyle normalizes the requested style, defaulting to basic.
func ValidStudyStyle(style string) string {
	switch style {
	case StyleBasic, StyleDetailed, StyleCheatsheet:
		return style
	default:
		return StyleBasic
	}
}
