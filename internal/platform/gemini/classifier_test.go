package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/prapeller/readadvance.backend/internal/config"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/retry"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewClassifierValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil logger", func(t *testing.T) {
		_, err := NewClassifier(ctx, nil, config.LLMConfig{
			GeminiAPIKey: "key",
			ModelName:    "gemini-2.0-flash",
		})
		require.Error(t, err)
	})

	t.Run("empty API key", func(t *testing.T) {
		_, err := NewClassifier(ctx, newTestLogger(), config.LLMConfig{
			ModelName: "gemini-2.0-flash",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("empty model name", func(t *testing.T) {
		_, err := NewClassifier(ctx, newTestLogger(), config.LLMConfig{
			GeminiAPIKey: "key",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestExtractText(t *testing.T) {
	t.Run("nil response", func(t *testing.T) {
		_, err := extractText(nil)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := extractText(&genai.GenerateContentResponse{})
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})

	t.Run("safety block", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content:      &genai.Content{},
					FinishReason: genai.FinishReasonSafety,
				},
			},
		}
		_, err := extractText(resp)
		assert.ErrorIs(t, err, ErrContentBlocked)
	})

	t.Run("text parts concatenated", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{
					Content: &genai.Content{
						Parts: []*genai.Part{{Text: "B"}, {Text: "1"}},
					},
				},
			},
		}
		text, err := extractText(resp)
		require.NoError(t, err)
		assert.Equal(t, "B1", text)
	})

	t.Run("no text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{
				{Content: &genai.Content{}},
			},
		}
		_, err := extractText(resp)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))

	long := strings.Repeat("я", maxInputLength+50)
	truncated := truncate(long)
	assert.Equal(t, maxInputLength, len([]rune(truncated)))
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced json", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFence(tc.input))
		})
	}
}

func TestWordTranslationParsing(t *testing.T) {
	raw := "```json\n{\"translated_word\": \"дом\", \"part_of_speech\": \"noun\", \"translated_context\": \"Это мой дом.\"}\n```"

	var result WordTranslation
	err := json.Unmarshal([]byte(stripCodeFence(raw)), &result)
	require.NoError(t, err)
	assert.Equal(t, "дом", result.TranslatedWord)
	assert.Equal(t, "noun", result.PartOfSpeech)
	assert.Equal(t, "Это мой дом.", result.TranslatedContext)
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

// stubGenerate counts calls and replays canned replies, one per call.
// The last reply (or error) repeats once the script runs out.
type stubGenerate struct {
	calls   int
	replies []string
	err     error
}

func (s *stubGenerate) generate(
	_ context.Context, _ string, _ []*genai.Content, _ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	idx := s.calls - 1
	if idx >= len(s.replies) {
		idx = len(s.replies) - 1
	}
	return textResponse(s.replies[idx]), nil
}

func newStubClassifier(stub *stubGenerate, policy retry.Policy) *Classifier {
	return &Classifier{
		logger:          newTestLogger(),
		generateContent: stub.generate,
		model:           "gemini-2.0-flash",
		limiter:         rate.NewLimiter(rate.Inf, 1),
		retryPolicy:     policy,
	}
}

func TestIdentifyLanguage(t *testing.T) {
	stub := &stubGenerate{replies: []string{" ru\n"}}
	c := newStubClassifier(stub, retry.NoRetry())

	lang, err := c.IdentifyLanguage(context.Background(), "Это мой дом.")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageRU, lang)
	assert.Equal(t, 1, stub.calls)
}

func TestIdentifyLanguageRejectsUnknownCode(t *testing.T) {
	stub := &stubGenerate{replies: []string{"XX"}}
	c := newStubClassifier(stub, retry.Constant(5, time.Millisecond))

	_, err := c.IdentifyLanguage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrInvalidClassification)
	assert.Equal(t, 1, stub.calls, "an out-of-set reply must not be re-prompted")
}

func TestIdentifyTextLevelRejectsUnknownCode(t *testing.T) {
	stub := &stubGenerate{replies: []string{"D1"}}
	c := newStubClassifier(stub, retry.Constant(5, time.Millisecond))

	_, err := c.IdentifyTextLevel(context.Background(), "Ein kurzer Text.")
	assert.ErrorIs(t, err, ErrInvalidClassification)
	assert.Equal(t, 1, stub.calls, "an out-of-set reply must not be re-prompted")
}

func TestIdentifyWordLevel(t *testing.T) {
	stub := &stubGenerate{replies: []string{"a1"}}
	c := newStubClassifier(stub, retry.NoRetry())

	level, err := c.IdentifyWordLevel(context.Background(), "mère", domain.LanguageFR)
	require.NoError(t, err)
	assert.Equal(t, domain.LevelA1, level)
}

func TestTranslateWordInContextMalformedReply(t *testing.T) {
	stub := &stubGenerate{replies: []string{"not json at all"}}
	c := newStubClassifier(stub, retry.Constant(5, time.Millisecond))

	_, err := c.TranslateWordInContext(
		context.Background(), "Haus", "Das Haus ist groß.", domain.LanguageDE, domain.LanguageEN)
	assert.ErrorIs(t, err, ErrInvalidClassification)
	assert.Equal(t, 1, stub.calls)
}

func TestGenerateRetriesTransportFailures(t *testing.T) {
	stub := &stubGenerate{err: errors.New("connection reset")}
	c := newStubClassifier(stub, retry.Constant(3, time.Millisecond))

	_, err := c.IdentifyLanguage(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrTransientFailure)
	assert.Equal(t, 3, stub.calls)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(ErrTransientFailure))
	assert.False(t, IsTransient(ErrInvalidClassification))
	assert.False(t, IsTransient(ErrContentBlocked))
	assert.False(t, IsTransient(errors.New("other")))
}
