package service

import (
	"context"
	"fmt"
	"net/smtp"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/mealplanner/backend/config"
)

const (
	MailProviderLog  = "log"
	MailProviderSMTP = "smtp"
	MailProviderSES  = "ses"
)

// mailSender delivers one rendered message
type mailSender interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}

type EmailService struct {
	sender       mailSender
	fromName     string
	resetURLBase string
}

// Ensure EmailService implements IEmailService
var _ IEmailService = (*EmailService)(nil)

// NewEmailService selects the delivery provider from configuration. SMTP
// without a host falls back to logging the message.
func NewEmailService(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*EmailService, error) {
	logger = logger.Named("mail")

	var sender mailSender
	switch cfg.MailProvider {
	case MailProviderSES:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		sender = &sesSender{client: ses.NewFromConfig(awsCfg), from: cfg.MailFrom}
	case MailProviderSMTP:
		if cfg.SMTPHost == "" || cfg.SMTPPort == "" {
			logger.Warn("SMTP not configured, logging emails instead")
			sender = &logSender{logger: logger}
			break
		}
		sender = &smtpSender{
			host:     cfg.SMTPHost,
			port:     cfg.SMTPPort,
			username: cfg.SMTPUsername,
			password: cfg.SMTPPassword,
			from:     cfg.MailFrom,
			fromName: cfg.MailFromName,
		}
	default:
		sender = &logSender{logger: logger}
	}

	logger.Info("email service initialized", zap.String("provider", cfg.MailProvider))
	return newEmailService(sender, cfg.MailFromName, cfg.ResetURLBase), nil
}

func newEmailService(sender mailSender, fromName, resetURLBase string) *EmailService {
	return &EmailService{
		sender:       sender,
		fromName:     cases.Title(language.English).String(fromName),
		resetURLBase: resetURLBase,
	}
}

func (s *EmailService) SendPasswordReset(ctx context.Context, to, token string) error {
	link := s.resetLink(to, token)
	subject := fmt.Sprintf("[%s] Password Reset Request", s.fromName)
	text := fmt.Sprintf("You requested a password reset for your %s account.\n\n"+
		"Open this link within one hour to choose a new password:\n%s\n\n"+
		"If you did not request this, you can ignore this email.", s.fromName, link)
	return s.sender.Send(ctx, to, subject, s.buildResetEmailBody(link), text)
}

func (s *EmailService) resetLink(email, token string) string {
	q := url.Values{}
	q.Set("token", token)
	q.Set("email", email)
	sep := "?"
	if strings.Contains(s.resetURLBase, "?") {
		sep = "&"
	}
	return s.resetURLBase + sep + q.Encode()
}

func (s *EmailService) buildResetEmailBody(link string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Password Reset - %s</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #4CAF50;">%s</h2>
	<p>You requested a password reset. Click the button below to choose a new password.</p>
	<div style="text-align: center; margin: 30px 0;">
		<a href="%s" style="background-color: #4CAF50; color: white; padding: 15px 30px; text-decoration: none; border-radius: 5px; font-weight: bold;">
			Reset Password
		</a>
	</div>
	<p style="color: #666; font-size: 14px;">If the button above doesn't work, copy and paste this link into your browser:</p>
	<p style="background-color: #eee; padding: 10px; border-radius: 5px; word-break: break-all; font-size: 12px;">%s</p>
	<p style="color: #666; font-size: 12px;">This link expires in one hour. If you didn't request a reset, you can safely ignore this email.</p>
</body>
</html>
	`, s.fromName, s.fromName, link, link)
}

type logSender struct {
	logger *zap.Logger
}

func (l *logSender) Send(_ context.Context, to, subject, _, textBody string) error {
	l.logger.Info("email not delivered, logging instead",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", textBody),
	)
	return nil
}

type smtpSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
}

func (s *smtpSender) Send(_ context.Context, to, subject, htmlBody, _ string) error {
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}

	from := fmt.Sprintf("%s <%s>", s.fromName, s.from)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, htmlBody))

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := smtp.SendMail(addr, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// sesAPI is the subset of *ses.Client used for delivery
type sesAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesSender struct {
	client sesAPI
	from   string
}

func (s *sesSender) Send(ctx context.Context, to, subject, htmlBody, textBody string) error {
	input := &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Html: &sestypes.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
				Text: &sestypes.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(s.from),
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	return nil
}
