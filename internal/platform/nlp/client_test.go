package nlp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prapeller/readadvance.backend/internal/config"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/interauth"
	"github.com/prapeller/readadvance.backend/internal/retry"
)

const testSecret = "inter-service-secret"

func testClient(t *testing.T, serverURL string) *Client {
	t.Helper()

	cfg := config.NLPConfig{
		BaseURL:               serverURL,
		ConnectTimeoutSeconds: 2,
		ReadTimeoutSeconds:    5,
	}
	return NewClient(cfg, testSecret, slog.Default()).WithRetryPolicy(retry.NoRetry())
}

// verifySignedRequest asserts the request carries a valid header pair.
func verifySignedRequest(t *testing.T, r *http.Request) {
	t.Helper()

	ts, err := strconv.ParseInt(r.Header.Get(interauth.TimestampHeader), 10, 64)
	require.NoError(t, err, "timestamp header must be a decimal integer")

	digest := r.Header.Get(interauth.SignatureHeader)
	assert.True(t,
		interauth.Verify(testSecret, ts, digest, time.Now(), interauth.DefaultMaxSkew),
		"request signature must verify against the shared secret")
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/internal/analyses/analyze", r.URL.Path)
		verifySignedRequest(t, r)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "бегущий", req["content"])
		assert.Equal(t, "RU", req["iso2"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"words": []map[string]string{{"lemma": "бежать", "pos": "VERB"}},
			"iso2":  "RU",
		})
	}))
	defer server.Close()

	tokens, err := testClient(t, server.URL).Analyze(context.Background(), "бегущий", domain.LanguageRU)
	require.NoError(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, "бежать", tokens[0].Lemma)
	assert.Equal(t, "VERB", tokens[0].PartOfSpeech)
}

func TestAnalyzeEmptyResultIsTerminal(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"words": []any{}, "iso2": "EN"})
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Analyze(context.Background(), "hello", domain.LanguageEN)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAnalysisFailed)
	assert.False(t, IsTransient(err))
}

func TestTranslate(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/internal/translations/translate", r.URL.Path)
		verifySignedRequest(t, r)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hello", req["text_input"])
		assert.Equal(t, "EN", req["input_lang_iso2"])
		assert.Equal(t, "DE", req["target_lang_iso2"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"text_output":      "hallo",
			"input_lang_iso2":  "EN",
			"target_lang_iso2": "DE",
		})
	}))
	defer server.Close()

	translated, err := testClient(t, server.URL).Translate(
		context.Background(), "hello", domain.LanguageEN, domain.LanguageDE)
	require.NoError(t, err)
	assert.Equal(t, "hallo", translated)
}

func TestServerErrorIsTransient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL).Translate(
		context.Background(), "hello", domain.LanguageEN, domain.LanguageDE)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
}

func TestTransientFailureIsRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text_output": "hallo"})
	}))
	defer server.Close()

	client := testClient(t, server.URL).WithRetryPolicy(retry.Constant(5, time.Millisecond))
	translated, err := client.Translate(
		context.Background(), "hello", domain.LanguageEN, domain.LanguageDE)
	require.NoError(t, err)
	assert.Equal(t, "hallo", translated)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := testClient(t, server.URL).WithRetryPolicy(retry.Constant(5, time.Millisecond))
	_, err := client.Translate(
		context.Background(), "hello", domain.LanguageEN, domain.LanguageDE)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
