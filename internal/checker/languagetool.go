package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/valpere/pravka/internal/edit"
)

// DefaultLanguageToolURL is the public LanguageTool API endpoint.
const DefaultLanguageToolURL = "https://api.languagetool.org"

// LanguageTool checks text against a LanguageTool server and maps its
// matches one-to-one into edits. Each match carries a start offset, a
// length, suggested replacements and a rule description; only the first
// replacement is used, matches without replacements are skipped.
type LanguageTool struct {
	baseURL  string
	language string
	client   *http.Client
}

// NewLanguageTool creates a checker against baseURL (empty means the
// public API) for Russian text.
func NewLanguageTool(baseURL string, timeout time.Duration) *LanguageTool {
	if baseURL == "" {
		baseURL = DefaultLanguageToolURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &LanguageTool{
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: "ru-RU",
		client:   &http.Client{Timeout: timeout},
	}
}

func (c *LanguageTool) Name() string {
	return "languagetool"
}

type ltMatch struct {
	Message      string `json:"message"`
	Offset       int    `json:"offset"`
	Length       int    `json:"length"`
	Replacements []struct {
		Value string `json:"value"`
	} `json:"replacements"`
	Rule struct {
		ID          string `json:"id"`
		Description string `json:"description"`
	} `json:"rule"`
}

type ltResponse struct {
	Matches []ltMatch `json:"matches"`
}

// Check posts text to the /v2/check endpoint and converts the matches
// into edits over text. Transport failures map to ErrUnavailable,
// exceeded deadlines to ErrTimeout.
func (c *LanguageTool) Check(ctx context.Context, text string) ([]edit.Edit, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", c.language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v2/check", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: languagetool returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed ltResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}

	runes := []rune(text)
	edits := make([]edit.Edit, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		if len(m.Replacements) == 0 {
			continue
		}
		if m.Offset < 0 || m.Length < 0 || m.Offset+m.Length > len(runes) {
			continue
		}
		edits = append(edits, edit.Edit{
			Offset:      m.Offset,
			Length:      m.Length,
			Original:    string(runes[m.Offset : m.Offset+m.Length]),
			Replacement: m.Replacements[0].Value,
			Message:     m.Message,
			Source:      edit.SourceChecker,
		})
	}
	return edits, nil
}

// classifyTransportError distinguishes timeouts from plain
// unreachability so the engine can record them separately.
func classifyTransportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
