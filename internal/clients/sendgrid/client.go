package sendgrid

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

type Client interface {
	Send(ctx context.Context, req SendEmailRequest) error
}

type SendEmailRequest struct {
	ToEmail  string
	ToName   string
	Subject  string
	TextBody string
	HTMLBody string
}

type Config struct {
	APIKey           string
	BaseURL          string
	DefaultFromEmail string
	DefaultFromName  string
	Timeout          time.Duration
	MaxRetries       int
}

func ConfigFromEnv() Config {
	return Config{
		APIKey:           strings.TrimSpace(os.Getenv("SENDGRID_API_KEY")),
		BaseURL:          strings.TrimSpace(os.Getenv("SENDGRID_BASE_URL")),
		DefaultFromEmail: envutil.String("SENDGRID_FROM_EMAIL", "notifications@curalink.app"),
		DefaultFromName:  envutil.String("SENDGRID_FROM_NAME", "CuraLink"),
		Timeout:          time.Duration(envutil.Int("SENDGRID_TIMEOUT_SECONDS", 30)) * time.Second,
		MaxRetries:       envutil.Int("SENDGRID_MAX_RETRIES", 3),
	}
}

func NewFromEnv(log *logger.Logger) (Client, error) {
	return New(log, ConfigFromEnv())
}

type sgClient struct {
	log        *logger.Logger
	cfg        Config
	httpClient *http.Client
}

func New(log *logger.Logger, cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &sgClient{
		log:        log.With("client", "SendGridClient"),
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type mailPayload struct {
	Personalizations []struct {
		To []emailAddr `json:"to"`
	} `json:"personalizations"`
	From    emailAddr `json:"from"`
	Subject string    `json:"subject"`
	Content []struct {
		Type  string `json:"type"`
		Value string `json:"value"`
	} `json:"content"`
}

type emailAddr struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (c *sgClient) Send(ctx context.Context, req SendEmailRequest) error {
	if strings.TrimSpace(req.ToEmail) == "" {
		return fmt.Errorf("recipient email required")
	}
	if strings.TrimSpace(req.TextBody) == "" && strings.TrimSpace(req.HTMLBody) == "" {
		return fmt.Errorf("email body required")
	}

	var payload mailPayload
	payload.Personalizations = append(payload.Personalizations, struct {
		To []emailAddr `json:"to"`
	}{To: []emailAddr{{Email: req.ToEmail, Name: req.ToName}}})
	payload.From = emailAddr{Email: c.cfg.DefaultFromEmail, Name: c.cfg.DefaultFromName}
	payload.Subject = req.Subject
	if req.TextBody != "" {
		payload.Content = append(payload.Content, struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "text/plain", Value: req.TextBody})
	}
	if req.HTMLBody != "" {
		payload.Content = append(payload.Content, struct {
			Type  string `json:"type"`
			Value string `json:"value"`
		}{Type: "text/html", Value: req.HTMLBody})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal mail payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctxutil.Default(ctx), "POST", c.cfg.BaseURL+"/v3/mail/send", bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			if !httpx.IsRetryableError(err) {
				return err
			}
			time.Sleep(httpx.JitterSleep(time.Duration(attempt+1) * time.Second))
			continue
		}
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil
		}
		lastErr = fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, string(respBody))
		if !httpx.IsRetryableHTTPStatus(resp.StatusCode) {
			return lastErr
		}
		time.Sleep(httpx.RetryAfterDuration(resp, time.Duration(attempt+1)*time.Second, 15*time.Second))
	}
	return lastErr
}
