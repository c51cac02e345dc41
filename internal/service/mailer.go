package service

import (
	"context"
	"fmt"
	"time"

	"sleepdiary/config"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Mailer delivers transactional mail through an external delivery API.
type Mailer interface {
	SendMagicLink(ctx context.Context, to, link string) error
}

type mailMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type httpMailer struct {
	httpClient *resty.Client
	from       string
	log        *logrus.Logger
}

// NewMailer creates a Mailer posting to the configured delivery endpoint.
func NewMailer(cfg config.EmailConfig, log *logrus.Logger) Mailer {
	client := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.APIKey)

	return &httpMailer{
		httpClient: client,
		from:       cfg.From,
		log:        log,
	}
}

func (m *httpMailer) SendMagicLink(ctx context.Context, to, link string) error {
	msg := mailMessage{
		From:    m.from,
		To:      to,
		Subject: "Sign in to SleepDiary",
		Text:    fmt.Sprintf("Click the link to sign in to SleepDiary: %s\n\nThe link is valid for 24 hours.", link),
	}

	resp, err := m.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		Post("/messages")
	if err != nil {
		m.log.Warnf("Failed to send magic link email: %+v", err)
		return err
	}

	if resp.IsError() {
		m.log.Warnf("Email delivery endpoint returned %d: %s", resp.StatusCode(), resp.String())
		return fmt.Errorf("email delivery failed with status %d", resp.StatusCode())
	}

	return nil
}
