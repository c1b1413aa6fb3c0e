package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/linguachat/go-lingua-backend/internal/config"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		text string
		want language.Tag
	}{
		{"¿Cómo estás?", language.Spanish},
		{"gracias por todo", language.Spanish},
		{"hola", language.Spanish},
		{"good morning everyone", language.English},
		{"let's meet at noon", language.English},
		{"mañana", language.Spanish},
	}
	for _, tc := range cases {
		if got := Detect(tc.text); got != tc.want {
			t.Errorf("Detect(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func newClientFor(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(config.TranslateConfig{
		Endpoint: srv.URL,
		APIKey:   "test-key",
		Model:    "gpt-4",
		Timeout:  2 * time.Second,
	})
}

func TestDetectAndTranslate_Success(t *testing.T) {
	var gotAuth string
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  hello  "}},
			},
		})
	}))
	defer srv.Close()

	res, err := newClientFor(t, srv).DetectAndTranslate(context.Background(), "hola amigo")
	if err != nil {
		t.Fatalf("DetectAndTranslate: %v", err)
	}
	if res.Detected != language.Spanish {
		t.Errorf("Detected = %v, want Spanish", res.Detected)
	}
	if res.Translation != "hello" {
		t.Errorf("Translation = %q, want %q (trimmed)", res.Translation, "hello")
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
}

func TestDetectAndTranslate_APIErrorYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	res, err := newClientFor(t, srv).DetectAndTranslate(context.Background(), "good morning")
	if err == nil {
		t.Fatal("expected error")
	}
	if res.Translation != ErrorSentinel {
		t.Errorf("Translation = %q, want sentinel", res.Translation)
	}
	if res.Detected != language.English {
		t.Errorf("Detected = %v, want English", res.Detected)
	}
}

func TestDetectAndTranslate_EmptyChoicesYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	res, err := newClientFor(t, srv).DetectAndTranslate(context.Background(), "hi")
	if err != ErrEmptyTranslation {
		t.Fatalf("err = %v, want ErrEmptyTranslation", err)
	}
	if res.Translation != ErrorSentinel {
		t.Errorf("Translation = %q, want sentinel", res.Translation)
	}
}

func TestDetectAndTranslate_ConnectionFailureYieldsSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	res, err := newClientFor(t, srv).DetectAndTranslate(context.Background(), "hola")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if res.Translation != ErrorSentinel {
		t.Errorf("Translation = %q, want sentinel", res.Translation)
	}
}
