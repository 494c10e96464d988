package services

import (
	"strings"
	"testing"

	"notesgenie-backend/internal/models"
)

func TestParseQuizJSON(t *testing.T) {
	clean := `[{"question":"What is Go?","options":["a","b","c","d"],"answer":"a"}]`

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"clean array", clean, 1},
		{"fenced json", "```json\n" + clean + "\n```", 1},
		{"bare fences", "```\n" + clean + "\n```", 1},
		{"preamble and trailer", "Here are your questions:\n" + clean + "\nGood luck!", 1},
		{"not json at all", "Sorry, I cannot do that.", 0},
		{"empty string", "", 0},
		{"object instead of array", `{"question":"q"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseQuizJSON(tt.raw)
			if got == nil {
				t.Fatal("parseQuizJSON must never return nil")
			}
			if len(got) != tt.want {
				t.Errorf("expected %d questions, got %d", tt.want, len(got))
			}
		})
	}
}

func TestValidateQuizQuestions(t *testing.T) {
	questions := []models.QuizQuestion{
		{Question: "ok", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		{Question: "", Options: []string{"a", "b", "c", "d"}, Answer: "a"},
		{Question: "three options", Options: []string{"a", "b", "c"}, Answer: "a"},
		{Question: "five options", Options: []string{"a", "b", "c", "d", "e"}, Answer: "a"},
		{Question: "no answer", Options: []string{"a", "b", "c", "d"}, Answer: ""},
	}

	valid := validateQuizQuestions(questions)
	if len(valid) != 1 || valid[0].Question != "ok" {
		t.Errorf("expected only the well-formed question to survive, got %+v", valid)
	}
}

func TestBuildNotesPrompt(t *testing.T) {
	text := "photosynthesis converts light into chemical energy"

	basic := buildNotesPrompt(StyleBasic, text)
	detailed := buildNotesPrompt(StyleDetailed, text)
	cheatsheet := buildNotesPrompt(StyleCheatsheet, text)

	if !strings.Contains(basic, "basic study notes") {
		t.Errorf("basic prompt missing style wording: %q", basic)
	}
	if !strings.Contains(detailed, "detailed study notes") {
		t.Errorf("detailed prompt missing style wording")
	}
	if !strings.Contains(cheatsheet, "cheat-sheet") {
		t.Errorf("cheatsheet prompt missing style wording")
	}
	for _, p := range []string{basic, detailed, cheatsheet} {
		if !strings.Contains(p, text) {
			t.Errorf("prompt must embed the source text")
		}
	}

	// Unknown styles fall back to basic
	if got := buildNotesPrompt("haiku", text); got != basic {
		t.Errorf("unknown style should produce the basic prompt")
	}
}

func TestValidStudyStyle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"basic", StyleBasic},
		{"detailed", StyleDetailed},
		{"cheatsheet", StyleCheatsheet},
		{"", StyleBasic},
		{"BASIC", StyleBasic},
		{"garbage", StyleBasic},
	}
	for _, tt := range tests {
		if got := ValidStudyStyle(tt.in); got != tt.want {
			t.Errorf("ValidStudyStyle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDiagramTopic(t *testing.T) {
	topic := DiagramTopic(StyleBasic, "the water cycle")
	if !strings.HasPrefix(topic, "Create a clear educational diagram illustrating: ") {
		t.Errorf("unexpected topic prefix: %q", topic)
	}

	long := strings.Repeat("x", 5000)
	if got := DiagramTopic(StyleDetailed, long); len(got) != diagramTopicMax {
		t.Errorf("expected topic capped at %d chars, got %d", diagramTopicMax, len(got))
	}
}

func TestBuildQuizPrompt(t *testing.T) {
	prompt := buildQuizPrompt("my notes")
	if !strings.Contains(prompt, "5 multiple-choice questions") {
		t.Errorf("prompt missing question count")
	}
	if !strings.Contains(prompt, "my notes") {
		t.Errorf("prompt must embed the notes")
	}
}
