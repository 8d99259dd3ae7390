// Package nlp implements the authenticated HTTP client for the internal
// NLP microservice, which performs lemma/part-of-speech analysis and
// direct-model translation.
package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prapeller/readadvance.backend/internal/config"
	"github.com/prapeller/readadvance.backend/internal/domain"
	"github.com/prapeller/readadvance.backend/internal/interauth"
	"github.com/prapeller/readadvance.backend/internal/retry"
)

// Internal endpoints of the NLP service.
const (
	analyzePath   = "/api/v1/internal/analyses/analyze"
	translatePath = "/api/v1/internal/translations/translate"
)

// TokenAnalysis is the per-token result of a lemma/POS analysis.
type TokenAnalysis struct {
	Lemma        string `json:"lemma"`
	PartOfSpeech string `json:"pos"`
}

// analyzeRequest and analyzeResponse mirror the NLP service's wire format.
type analyzeRequest struct {
	Content  string          `json:"content"`
	Language domain.Language `json:"iso2"`
}

type analyzeResponse struct {
	Words    []TokenAnalysis `json:"words"`
	Language domain.Language `json:"iso2"`
}

type translateRequest struct {
	TextInput  string          `json:"text_input"`
	InputLang  domain.Language `json:"input_lang_iso2"`
	TargetLang domain.Language `json:"target_lang_iso2"`
}

type translateResponse struct {
	TextOutput string          `json:"text_output"`
	InputLang  domain.Language `json:"input_lang_iso2"`
	TargetLang domain.Language `json:"target_lang_iso2"`
}

// Client is the signed HTTP client for the NLP microservice.
// Every request carries the replay-protected (timestamp, digest) header
// pair; transient failures are retried per the configured policy.
type Client struct {
	baseURL     string
	secret      string
	httpClient  *http.Client
	retryPolicy retry.Policy
	logger      *slog.Logger
}

// NewClient creates an NLP client from configuration. The shared secret
// comes from the auth config; timeouts and the retry envelope from the
// NLP config.
func NewClient(cfg config.NLPConfig, secret string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	connectTimeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	readTimeout := time.Duration(cfg.ReadTimeoutSeconds) * time.Second

	httpClient := &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}

	return &Client{
		baseURL:     cfg.BaseURL,
		secret:      secret,
		httpClient:  httpClient,
		retryPolicy: retry.Constant(cfg.MaxRetries+1, time.Duration(cfg.RetryDelaySeconds)*time.Second),
		logger:      logger.With(slog.String("component", "nlp_client")),
	}
}

// WithRetryPolicy returns a copy of the client using the given policy.
// Tests inject retry.NoRetry() here.
func (c *Client) WithRetryPolicy(policy retry.Policy) *Client {
	clone := *c
	clone.retryPolicy = policy
	return &clone
}

// Analyze runs lemma/POS analysis for the given content.
// Returns ErrAnalysisFailed if the service responds with a malformed or
// empty analysis; transient failures are retried before surfacing.
func (c *Client) Analyze(ctx context.Context, content string, language domain.Language) ([]TokenAnalysis, error) {
	reqBody := analyzeRequest{Content: content, Language: language}

	var resp analyzeResponse
	err := retry.Do(ctx, c.retryPolicy, IsTransient, func(ctx context.Context) error {
		return c.post(ctx, analyzePath, reqBody, &resp)
	})
	if err != nil {
		return nil, fmt.Errorf("analyze %q (%s): %w", content, language, err)
	}

	if len(resp.Words) == 0 {
		return nil, fmt.Errorf("%w: empty analysis for %q (%s)", ErrAnalysisFailed, content, language)
	}

	return resp.Words, nil
}

// Translate translates text via the NLP service's direct translation
// models. The service itself chains through the pivot language when no
// direct model exists for the pair.
func (c *Client) Translate(ctx context.Context, text string, from, to domain.Language) (string, error) {
	reqBody := translateRequest{TextInput: text, InputLang: from, TargetLang: to}

	var resp translateResponse
	err := retry.Do(ctx, c.retryPolicy, IsTransient, func(ctx context.Context) error {
		return c.post(ctx, translatePath, reqBody, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", from, to, err)
	}

	if resp.TextOutput == "" {
		return "", fmt.Errorf("%w: empty translation %s->%s", ErrTranslationFailed, from, to)
	}

	return resp.TextOutput, nil
}

// post sends a signed JSON request and decodes the JSON response into out.
// Network errors and 5xx responses map to ErrTransient; anything else that
// goes wrong with the payload maps to ErrAnalysisFailed at the call site.
func (c *Client) post(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	timestamp, signature := interauth.SignNow(c.secret)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(interauth.TimestampHeader, strconv.FormatInt(timestamp, 10))
	req.Header.Set(interauth.SignatureHeader, signature)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("NLP request failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrTransient, err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.logger.Warn("NLP service error",
			slog.String("path", path),
			slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%w: status %d", ErrTransient, resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("NLP service rejected request: status %d: %s", resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
