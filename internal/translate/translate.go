// Package translate provides language detection and the translation
// collaborator used when persisting messages. Detection is a lightweight
// es/en heuristic carried over from the product's bilingual scope; the
// actual translation is delegated to an external chat-completions API.
//
// Translation is best-effort: on any failure the caller receives the
// detected language together with a user-visible error sentinel, so a
// message is never lost because the translator was down.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/text/language"

	"github.com/linguachat/go-lingua-backend/internal/config"
)

// ErrorSentinel is stored as the translation when the collaborator fails.
// The user may retry by resending.
const ErrorSentinel = "[Translation error: Please try again]"

// ErrEmptyTranslation is returned when the API answered without content.
var ErrEmptyTranslation = errors.New("empty translation received")

// Result is a detection + translation outcome.
type Result struct {
	Detected    language.Tag
	Translation string
}

// Translator detects the source language of text and translates it to the
// opposite side of the es/en pair.
type Translator interface {
	DetectAndTranslate(ctx context.Context, text string) (Result, error)
}

var (
	accentedRE = regexp.MustCompile(`[áéíóúñ¿¡]`)
	stopwordRE = regexp.MustCompile(`\b(hola|gracias|por favor|si|no|que|como|estar|ser|hacer)\b`)
)

// Detect classifies text as Spanish or English using accented characters
// and a small stopword list. Deliberately coarse: the product pair is
// exactly es<->en and misclassification only flips the translation
// direction, never loses content.
func Detect(text string) language.Tag {
	lower := strings.ToLower(text)
	if accentedRE.MatchString(lower) || stopwordRE.MatchString(lower) {
		return language.Spanish
	}
	return language.English
}

// targetName returns the English display name of the translation target for
// the detected source language.
func targetName(detected language.Tag) string {
	if detected == language.Spanish {
		return "English"
	}
	return "Spanish"
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	endpoint string
	apiKey   string
	model    string
	httpc    *http.Client
}

// NewClient constructs a Client from configuration.
func NewClient(cfg config.TranslateConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		httpc:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// DetectAndTranslate detects the source language and requests a translation
// to the opposite language. On failure the Result still carries the
// detected language and the error sentinel as the translation, alongside
// the error for logging.
func (c *Client) DetectAndTranslate(ctx context.Context, text string) (Result, error) {
	detected := Detect(text)
	fallback := Result{Detected: detected, Translation: ErrorSentinel}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: fmt.Sprintf("You are a translator. Translate the following text to %s. Provide ONLY the translation, no explanations or additional text.", targetName(detected)),
			},
			{Role: "user", Content: text},
		},
		Temperature: 0.3,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fallback, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fallback, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fallback, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fallback, fmt.Errorf("translation API status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fallback, err
	}
	if len(parsed.Choices) == 0 {
		return fallback, ErrEmptyTranslation
	}
	translation := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if translation == "" {
		return fallback, ErrEmptyTranslation
	}

	return Result{Detected: detected, Translation: translation}, nil
}
