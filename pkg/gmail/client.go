package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// Config defines how the Gmail sender authenticates. The service account must
// have domain-wide delegation so it can send as Sender.
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Sender          string
}

// Client sends plaintext mail through the Gmail API
type Client struct {
	service *gmail.Service
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	creds := cfg.CredentialsJSON
	if len(creds) == 0 {
		if cfg.CredentialsPath == "" {
			return nil, fmt.Errorf("gmail: credentials path or JSON is required")
		}
		b, err := os.ReadFile(cfg.CredentialsPath)
		if err != nil {
			return nil, fmt.Errorf("gmail: read credentials: %w", err)
		}
		creds = b
	}

	jwtCfg, err := google.JWTConfigFromJSON(creds, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("gmail: parse credentials: %w", err)
	}
	jwtCfg.Subject = cfg.Sender

	service, err := gmail.NewService(ctx, option.WithHTTPClient(jwtCfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("gmail: failed to create service: %w", err)
	}

	return &Client{service: service}, nil
}

// Send delivers one message from the authenticated mailbox
func (c *Client) Send(ctx context.Context, from string, to []string, subject, body string) error {
	if c.service == nil {
		return fmt.Errorf("gmail: service is nil")
	}
	if len(to) == 0 {
		return fmt.Errorf("gmail: at least one recipient is required")
	}

	msg := &gmail.Message{Raw: EncodeMessage(from, to, subject, body)}
	if _, err := c.service.Users.Messages.Send("me", msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("gmail: send: %w", err)
	}
	return nil
}

// EncodeMessage renders an RFC 822 plaintext message in the URL-safe base64
// form the Gmail API expects in Message.Raw
func EncodeMessage(from string, to []string, subject, body string) string {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + strings.Join(to, ", ") + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	return base64.URLEncoding.EncodeToString([]byte(sb.String()))
}
