package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
)

var ErrEmailDisabled = errors.New("email delivery is not configured")

type Email struct {
	To      []string `json:"to" binding:"required,min=1,dive,required,email"`
	Subject string   `json:"subject" binding:"required"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

func (e Email) Validate() error {
	if len(e.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", models.ErrValidation)
	}
	if strings.TrimSpace(e.Subject) == "" {
		return fmt.Errorf("%w: subject is required", models.ErrValidation)
	}
	if strings.TrimSpace(e.Text) == "" && strings.TrimSpace(e.HTML) == "" {
		return fmt.Errorf("%w: text or html body is required", models.ErrValidation)
	}
	return nil
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// HTTPMailer posts messages to a transactional email API that accepts a JSON
// body and a bearer API key.
type HTTPMailer struct {
	endpoint string
	apiKey   string
	from     string
	client   *http.Client
}

func NewHTTPMailer(endpoint, apiKey, from string, timeout time.Duration) *HTTPMailer {
	return &HTTPMailer{
		endpoint: endpoint,
		apiKey:   apiKey,
		from:     from,
		client:   &http.Client{Timeout: timeout},
	}
}

type outgoingEmail struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`
}

func (m *HTTPMailer) Send(ctx context.Context, email Email) error {
	if m.endpoint == "" || m.apiKey == "" {
		return ErrEmailDisabled
	}
	if err := email.Validate(); err != nil {
		return err
	}

	body, err := json.Marshal(outgoingEmail{
		From:    m.from,
		To:      email.To,
		Subject: email.Subject,
		Text:    email.Text,
		HTML:    email.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
