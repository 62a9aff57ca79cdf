package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/pravka/internal/chunker"
	"github.com/valpere/pravka/internal/edit"
	"github.com/valpere/pravka/internal/placeholder"
	"github.com/valpere/pravka/internal/postprocess"
)

// DefaultOllamaModel is used when no model is configured.
const DefaultOllamaModel = "llama3.2"

// ollamaChunkRunes caps the text sent to the model in one call; longer
// texts are split at paragraph/sentence boundaries and the per-chunk
// edits are re-based onto the full text.
const ollamaChunkRunes = 1500

// Ollama is a checker backed by a local Ollama model. The model is
// asked to fix spelling and punctuation only and to return nothing but
// the corrected text; the edits are then recovered by diffing the
// answer against the input, so the oracle's free-form output still
// yields span-anchored corrections.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllama creates an LLM checker. Empty baseURL means the local
// Ollama default, empty model means DefaultOllamaModel.
func NewOllama(baseURL, model string, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Ollama{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Ollama) Name() string {
	return "ollama"
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// Check corrects text chunk by chunk and returns the recovered edits.
// Code spans and HTML tags are shielded with markers before each model
// call and restored after it; a chunk whose markers the model mangled
// is skipped entirely, because a diff against such an answer would
// report corrections inside content that was never prose.
func (c *Ollama) Check(ctx context.Context, text string) ([]edit.Edit, error) {
	var edits []edit.Edit
	for _, chunk := range chunker.Split(text, ollamaChunkRunes) {
		shielded, guard := placeholder.Shield(chunk.Text)
		corrected, err := c.generate(ctx, shielded, guard)
		if err != nil {
			return nil, err
		}
		if corrected == "" {
			continue
		}
		if guard.Count() > 0 {
			if len(guard.Missing(corrected)) > 0 {
				continue
			}
			corrected = guard.Restore(corrected)
		}
		if e, ok := diffEdit(chunk.Text, corrected); ok {
			e.Offset += chunk.Offset
			edits = append(edits, e)
		}
	}
	return edits, nil
}

func (c *Ollama) generate(ctx context.Context, text string, guard *placeholder.Guard) (string, error) {
	reqBody := ollamaRequest{
		Model:  c.model,
		Prompt: buildCorrectionPrompt(text, guard),
		Stream: false,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/generate", c.baseURL), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ollama returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	return postprocess.Clean(parsed.Response), nil
}

func buildCorrectionPrompt(text string, guard *placeholder.Guard) string {
	hint := ""
	if guard.Count() > 0 {
		hint = guard.Hint() + "\n"
	}
	return fmt.Sprintf(`Ты редактор русского текста. Исправь только орфографические и пунктуационные ошибки.
НЕ переписывай текст, НЕ меняй стиль, НЕ добавляй слова.
%sВерни ТОЛЬКО исправленный текст без объяснений.

Текст:
%s`, hint, text)
}

// diffEdit recovers one edit from an (original, corrected) pair by
// trimming the common rune prefix and suffix. The middle becomes a
// single replacement edit; identical strings yield no edit. Coarser
// than a full diff, but always offset-correct and deterministic.
func diffEdit(original, corrected string) (edit.Edit, bool) {
	a, b := []rune(original), []rune(corrected)

	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	if prefix == len(a) && len(a) == len(b) {
		return edit.Edit{}, false
	}

	return edit.Edit{
		Offset:      prefix,
		Length:      len(a) - prefix - suffix,
		Original:    string(a[prefix : len(a)-suffix]),
		Replacement: string(b[prefix : len(b)-suffix]),
		Message:     "Language model correction",
		Source:      edit.SourceChecker,
	}, true
}
