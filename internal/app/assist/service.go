package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"piratwhist/internal/ports"
)

var (
	ErrEmptyQuestion   = errors.New("question is empty")
	ErrQuestionTooLong = errors.New("question is too long")
)

// MaxQuestionLen bounds player questions before they reach the model.
const MaxQuestionLen = 500

// maxChunks is how many knowledge excerpts go into a prompt.
const maxChunks = 6

type chunk struct {
	Text string `json:"text"`
}

type knowledgeFile struct {
	Rules []chunk `json:"rules"`
	UI    []chunk `json:"ui"`
}

// Service answers player questions about the game by retrieving the most
// relevant knowledge chunks and asking the model backend with a guarded
// prompt.
type Service struct {
	model  ports.ModelPort
	chunks []string
	tokens []map[string]bool // per-chunk token sets
}

// NewService loads the knowledge base and wraps the model backend.
func NewService(model ports.ModelPort, knowledgePath string) (*Service, error) {
	chunks, err := loadKnowledge(knowledgePath)
	if err != nil {
		return nil, err
	}
	s := &Service{model: model, chunks: chunks}
	for _, c := range chunks {
		set := make(map[string]bool)
		for _, tok := range tokenize(c) {
			set[tok] = true
		}
		s.tokens = append(s.tokens, set)
	}
	return s, nil
}

func loadKnowledge(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base: %w", err)
	}
	var kf knowledgeFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal knowledge base: %w", err)
	}
	var out []string
	for _, c := range kf.Rules {
		out = append(out, c.Text)
	}
	for _, c := range kf.UI {
		out = append(out, c.Text)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("knowledge base %s has no chunks", path)
	}
	return out, nil
}

// tokenize lowercases and splits on non-alphanumeric runes, dropping tokens
// too short to carry meaning.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var out []string
	for _, f := range fields {
		if len([]rune(f)) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// retrieve returns the indices of the best-matching chunks, best first.
// Chunks with no overlap are excluded; with no overlap anywhere the leading
// rules chunks are used as a fallback.
func (s *Service) retrieve(question string) []int {
	qTokens := tokenize(question)

	type scored struct{ idx, score int }
	var hits []scored
	for i, set := range s.tokens {
		score := 0
		for _, tok := range qTokens {
			if set[tok] {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{i, score})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })

	if len(hits) == 0 {
		n := maxChunks
		if n > len(s.chunks) {
			n = len(s.chunks)
		}
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	if len(hits) > maxChunks {
		hits = hits[:maxChunks]
	}
	idx := make([]int, len(hits))
	for i, h := range hits {
		idx[i] = h.idx
	}
	return idx
}

// buildPrompt assembles the guarded prompt: knowledge excerpts, the current
// table situation, and the player's question.
func (s *Service) buildPrompt(question, situation string) string {
	var b strings.Builder
	b.WriteString("Du er en venlig hjælper i kortspillet Piratwhist.\n")
	b.WriteString("Svar kort og på dansk. Svar kun på spørgsmål om spillet og dets regler.\n")
	b.WriteString("Hvis spørgsmålet ikke handler om spillet, så sig venligt at du kun kan hjælpe med Piratwhist.\n\n")
	b.WriteString("Uddrag af reglerne:\n")
	for _, idx := range s.retrieve(question) {
		b.WriteString("- ")
		b.WriteString(s.chunks[idx])
		b.WriteString("\n")
	}
	if situation != "" {
		b.WriteString("\nSituationen ved bordet lige nu:\n")
		b.WriteString(situation)
		b.WriteString("\n")
	}
	b.WriteString("\nSpørgsmål: ")
	b.WriteString(question)
	return b.String()
}

// Ask validates the question and returns the model's answer.
func (s *Service) Ask(ctx context.Context, question, situation string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if len([]rune(question)) > MaxQuestionLen {
		return "", ErrQuestionTooLong
	}
	return s.model.Complete(ctx, s.buildPrompt(question, situation))
}
