package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/curalink/curalink-backend/internal/platform/ctxutil"
	"github.com/curalink/curalink-backend/internal/platform/envutil"
	"github.com/curalink/curalink-backend/internal/platform/httpx"
	"github.com/curalink/curalink-backend/internal/platform/logger"
)

// Client is the generative-text surface the assistant features consume.
// Callers treat any error as "model unavailable" and fall back.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	model := envutil.String("OPENAI_MODEL", "gpt-4o-mini")
	timeoutSec := envutil.Int("OPENAI_TIMEOUT_SECONDS", 30)

	return &client{
		log:        log.With("client", "OpenAIClient"),
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		maxRetries: envutil.Int("OPENAI_MAX_RETRIES", 2),
	}, nil
}

type responsesRequest struct {
	Model string         `json:"model"`
	Input []responsesMsg `json:"input"`
}

type responsesMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesResponse struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	req := responsesRequest{
		Model: c.model,
		Input: []responsesMsg{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}

	var resp responsesResponse
	if err := c.do(ctx, "POST", "/v1/responses", &req, &resp); err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", fmt.Errorf("openai: %s", resp.Error.Message)
	}

	var sb strings.Builder
	for _, out := range resp.Output {
		for _, part := range out.Content {
			if part.Type == "output_text" {
				sb.WriteString(part.Text)
			}
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no output_text in response")
	}
	return text, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctxutil.Default(ctx), method, c.baseURL+path, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !httpx.IsRetryableError(err) {
				return err
			}
			time.Sleep(httpx.JitterSleep(time.Duration(attempt+1) * time.Second))
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return readErr
		}

		if httpx.IsRetryableHTTPStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(body, 200))
			time.Sleep(httpx.RetryAfterDuration(resp, time.Duration(attempt+1)*time.Second, 10*time.Second))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("openai status %d: %s", resp.StatusCode, truncate(body, 200))
		}
		return json.Unmarshal(body, out)
	}
	return lastErr
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n]
	}
	return s
}
