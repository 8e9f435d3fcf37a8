package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/config"
	"github.com/goccy/go-json"
)

var ErrEmailNotConfigured = errors.New("email service not configured")

// Message is one outgoing email. To must hold at least one address.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	ReplyTo string
}

type SendResult struct {
	ID string `json:"id"`
}

type resendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type resendError struct {
	Message string `json:"message"`
}

// EmailService sends transactional mail through the Resend HTTP API.
type EmailService struct {
	apiKey     string
	apiURL     string
	from       string
	adminEmail string
	appURL     string
	httpClient *http.Client
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{
		apiKey:     cfg.ResendAPIKey,
		apiURL:     strings.TrimRight(cfg.ResendAPIURL, "/"),
		from:       cfg.FromEmail,
		adminEmail: cfg.AdminEmail,
		appURL:     strings.TrimRight(cfg.AppURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EmailService) Send(ctx context.Context, msg Message) (*SendResult, error) {
	if s.apiKey == "" {
		return nil, ErrEmailNotConfigured
	}
	if len(msg.To) == 0 {
		return nil, errors.New("email has no recipients")
	}

	body, err := json.Marshal(resendPayload{
		From:    s.from,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach email provider: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var perr resendError
		if json.Unmarshal(raw, &perr) == nil && perr.Message != "" {
			return nil, fmt.Errorf("email provider: %s", perr.Message)
		}
		return nil, fmt.Errorf("email provider: status %d", resp.StatusCode)
	}

	var result SendResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	return &result, nil
}

// SendWelcome implements WelcomeMailer.
func (s *EmailService) SendWelcome(ctx context.Context, name, email string) error {
	data := mailData{
		FirstName: firstName(name),
		Link:      s.appURL + "/assessment.html",
	}

	html, text, err := render("welcome", data)
	if err != nil {
		return err
	}

	_, err = s.Send(ctx, Message{
		To:      []string{email},
		Subject: fmt.Sprintf("Welcome to PM SkillsAssess, %s!", data.FirstName),
		HTML:    html,
		Text:    text,
		ReplyTo: s.adminEmail,
	})
	return err
}

// SendPasswordReset mails a reset link. An empty resetURL points at the app
// root with the token in the query string.
func (s *EmailService) SendPasswordReset(ctx context.Context, name, email, token, resetURL string) error {
	if resetURL == "" {
		resetURL = s.appURL + "?reset_token=" + url.QueryEscape(token)
	}
	data := mailData{FirstName: firstName(name), Link: resetURL}

	html, text, err := render("reset", data)
	if err != nil {
		return err
	}

	_, err = s.Send(ctx, Message{
		To:      []string{email},
		Subject: "Reset your PM SkillsAssess password",
		HTML:    html,
		Text:    text,
	})
	return err
}

func firstName(name string) string {
	if parts := strings.Fields(name); len(parts) > 0 {
		return parts[0]
	}
	return "there"
}

type mailData struct {
	FirstName string
	Link      string
}

func render(name string, data mailData) (string, string, error) {
	var html, text bytes.Buffer
	if err := htmlTemplates.ExecuteTemplate(&html, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s html: %w", name, err)
	}
	if err := textTemplates.ExecuteTemplate(&text, name, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s text: %w", name, err)
	}
	return html.String(), text.String(), nil
}

const mailStyle = `body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; background: #f3f4f6; }
.container { max-width: 600px; margin: 0 auto; padding: 40px 20px; }
.card { background: white; border-radius: 16px; overflow: hidden; }
.header { background: #6366f1; color: white; padding: 40px 30px; text-align: center; }
.content { padding: 40px 30px; }
.cta { text-align: center; margin: 32px 0; }
.cta a { display: inline-block; background: #6366f1; color: white; padding: 14px 32px; border-radius: 8px; text-decoration: none; font-weight: 600; }
.note { background: #fef3c7; border: 1px solid #f59e0b; border-radius: 8px; padding: 16px; margin: 24px 0; font-size: 14px; }
.footer { text-align: center; padding: 24px; color: #6b7280; font-size: 14px; border-top: 1px solid #e5e7eb; }`

var htmlTemplates = htmltemplate.Must(htmltemplate.New("mail").Parse(`
{{define "layout-head"}}<!DOCTYPE html><html><head><style>` + mailStyle + `</style></head><body><div class="container"><div class="card">{{end}}
{{define "layout-foot"}}<div class="footer"><p>PM SkillsAssess</p></div></div></div></body></html>{{end}}

{{define "welcome"}}{{template "layout-head"}}
<div class="header"><h1>Welcome to PM SkillsAssess!</h1><p>Assess. Improve. Advance.</p></div>
<div class="content">
<p>Hi {{.FirstName}},</p>
<p>Thanks for joining PM SkillsAssess! You now have access to our comprehensive PM skills assessment.</p>
<p><strong>13 Skill Areas</strong>: evaluate your PM competencies.</p>
<p><strong>Personalized Roadmap</strong>: get a custom learning path.</p>
<p><strong>PDF Report</strong>: download your detailed assessment.</p>
<div class="cta"><a href="{{.Link}}">Start Your Assessment</a></div>
<p>Happy learning!<br><strong>PM SkillsAssess Team</strong></p>
</div>
{{template "layout-foot"}}{{end}}

{{define "reset"}}{{template "layout-head"}}
<div class="header"><h1>Reset Your Password</h1></div>
<div class="content">
<p>Hi {{.FirstName}},</p>
<p>We received a request to reset your PM SkillsAssess password. Click the button below to create a new password:</p>
<div class="cta"><a href="{{.Link}}">Reset Password</a></div>
<div class="note">This link expires in 1 hour. If you didn't request this reset, you can safely ignore this email.</div>
<p>If the button doesn't work, copy and paste this URL into your browser:</p>
<p style="word-break: break-all; color: #6366f1;">{{.Link}}</p>
</div>
{{template "layout-foot"}}{{end}}
`))

var textTemplates = texttemplate.Must(texttemplate.New("mail").Parse(`
{{- define "welcome"}}Welcome to PM SkillsAssess, {{.FirstName}}! Start your assessment at {{.Link}}{{end}}
{{- define "reset"}}Reset Your Password

Hi {{.FirstName}},

We received a request to reset your PM SkillsAssess password. Visit this link to create a new password:

{{.Link}}

This link expires in 1 hour. If you didn't request this reset, you can safely ignore this email.

- PM SkillsAssess
{{end}}`))
