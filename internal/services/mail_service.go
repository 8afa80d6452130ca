package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"

	"amazonia/internal/config"
	"amazonia/pkg/logging"
)

type IMailService interface {
	SendMailToNotifyUser(ctx context.Context, to, subject, body, ctaText, ctaURL string) error
	SendMailToResetPassword(ctx context.Context, email, code string, ttl time.Duration) error
}

const appName = "AmazôniaExperience"

// NewMailService returns the SMTP mailer, or a log-only one when no SMTP
// host is configured.
func NewMailService(cfg *config.Config) IMailService {
	if !cfg.Mail.Enabled() {
		return &logMailService{}
	}
	return NewSMTPMailService(cfg.Mail)
}

type smtpMailService struct {
	cfg     config.MailConfig
	htmlTpl *template.Template
	textTpl *template.Template
	now     func() time.Time
}

func NewSMTPMailService(cfg config.MailConfig) IMailService {
	return &smtpMailService{
		cfg:     cfg,
		htmlTpl: template.Must(template.New("html").Parse(baseHTMLTemplate)),
		textTpl: template.Must(template.New("text").Parse(plainTextTemplate)),
		now:     time.Now,
	}
}

func (s *smtpMailService) SendMailToNotifyUser(ctx context.Context, to, subject, body, ctaText, ctaURL string) error {
	html, text, err := s.renderEmail(EmailData{
		Title:     subject,
		Intro:     body,
		ButtonURL: ctaURL,
		ButtonTxt: ctaText,
		AppName:   appName,
		Year:      s.now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, to, subject, html, text)
}

func (s *smtpMailService) SendMailToResetPassword(ctx context.Context, to, code string, ttl time.Duration) error {
	subject := "Your password reset code"
	link := strings.TrimRight(s.cfg.AppBaseURL, "/") + "/reset-password"

	html, text, err := s.renderEmail(EmailData{
		Title: subject,
		Intro: fmt.Sprintf("Use the code below to reset your password. It expires in %d minutes. "+
			"If you did not ask for this, ignore this email.", int(ttl.Minutes())),
		Code:      code,
		ButtonURL: link,
		ButtonTxt: "Reset password",
		AppName:   appName,
		Year:      s.now().Year(),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, to, subject, html, text)
}

type EmailData struct {
	Title     string
	Intro     string
	Code      string
	ButtonURL string
	ButtonTxt string
	AppName   string
	Year      int
}

const baseHTMLTemplate = `<!doctype html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; background: #f1f5ef; font-family: -apple-system, "Segoe UI", Roboto, Arial, sans-serif; color: #1f2d1f; }
    .box { max-width: 560px; margin: 32px auto; background: #ffffff; border-radius: 12px; overflow: hidden; }
    .head { background: #14532d; color: #fef3c7; padding: 20px 28px; font-weight: 700; letter-spacing: .5px; }
    .body { padding: 28px; line-height: 1.6; }
    .code { font-size: 30px; font-weight: 700; letter-spacing: 8px; background: #ecfccb; padding: 12px 20px; border-radius: 8px; display: inline-block; }
    .btn { display: inline-block; margin-top: 20px; padding: 12px 24px; background: #15803d; color: #ffffff !important; border-radius: 8px; text-decoration: none; }
    .foot { padding: 16px 28px; font-size: 12px; color: #6b7a6b; border-top: 1px solid #e5ebe3; }
  </style>
</head>
<body>
  <div class="box">
    <div class="head">{{.AppName}}</div>
    <div class="body">
      <h2>{{.Title}}</h2>
      <p>{{.Intro}}</p>
      {{if .Code}}<p class="code">{{.Code}}</p>{{end}}
      {{if .ButtonURL}}<p><a class="btn" href="{{.ButtonURL}}">{{.ButtonTxt}}</a></p>{{end}}
    </div>
    <div class="foot">© {{.Year}} {{.AppName}} · COP30 Belém</div>
  </div>
</body>
</html>`

const plainTextTemplate = `{{.Title}}

{{.Intro}}
{{if .Code}}
Code: {{.Code}}
{{end}}{{if .ButtonURL}}
{{.ButtonTxt}}: {{.ButtonURL}}
{{end}}
{{.AppName}} (c) {{.Year}}
`

func (s *smtpMailService) renderEmail(data EmailData) (html string, text string, err error) {
	var hb, tb bytes.Buffer
	if err = s.htmlTpl.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err = s.textTpl.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return hb.String(), tb.String(), nil
}

func (s *smtpMailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	now := s.now()
	boundary := fmt.Sprintf("alt_%d", now.UnixNano())

	var msg bytes.Buffer
	write := func(format string, a ...any) { _, _ = fmt.Fprintf(&msg, format, a...) }

	write("From: %s\r\n", s.formatFromHeader())
	write("To: %s\r\n", to)
	write("Subject: %s\r\n", mime.BEncoding.Encode("UTF-8", subject))
	write("Date: %s\r\n", now.Format(time.RFC1123Z))
	write("MIME-Version: 1.0\r\n")
	write("Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	write("--%s\r\n", boundary)
	write("Content-Type: text/plain; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", textBody)

	write("--%s\r\n", boundary)
	write("Content-Type: text/html; charset=UTF-8\r\n")
	write("Content-Transfer-Encoding: 8bit\r\n\r\n")
	write("%s\r\n\r\n", htmlBody)

	write("--%s--\r\n", boundary)
	return msg.Bytes()
}

func (s *smtpMailService) send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	msg := s.buildMessage(to, subject, htmlBody, textBody)
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	tlsCfg := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.UseSSL {
		// implicit TLS, usually port 465
		conn, err = tls.DialWithDialer(dialer, "tcp", addr, tlsCfg)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		return err
	}
	defer c.Quit()

	if !s.cfg.UseSSL {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err = c.StartTLS(tlsCfg); err != nil {
				return err
			}
		} else if s.cfg.RequireTLS {
			return fmt.Errorf("smtp server %s does not support STARTTLS", s.cfg.Host)
		}
	}

	if s.cfg.Username != "" {
		if err = c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err = c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err = c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err = w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (s *smtpMailService) formatFromHeader() string {
	name := strings.TrimSpace(s.cfg.FromName)
	if name == "" {
		return s.cfg.From
	}
	return fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("UTF-8", name), s.cfg.From)
}

// logMailService is used when SMTP is not configured.
type logMailService struct{}

func (l *logMailService) SendMailToNotifyUser(ctx context.Context, to, subject, _, _, _ string) error {
	logging.Ctx(ctx).Info().Str("to", to).Str("subject", subject).Msg("mail disabled, notification not sent")
	return nil
}

func (l *logMailService) SendMailToResetPassword(ctx context.Context, email, _ string, _ time.Duration) error {
	logging.Ctx(ctx).Warn().Str("to", email).Msg("mail disabled, password reset code not delivered")
	return nil
}
