// Package mailer sends notification email through AWS SES.
package mailer

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"panzoto-backend/config"
	"panzoto-backend/models"
)

// Mailer sends one HTML email.
type Mailer interface {
	Send(ctx context.Context, recipient, subject, htmlBody string) error
}

// SESMailer implements Mailer on AWS SESv2
type SESMailer struct {
	client *sesv2.Client
	sender string
}

// NewSESMailer creates an SES-backed mailer
func NewSESMailer(cfg *config.Config) (*SESMailer, error) {
	ctx := context.Background()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKey,
			cfg.AWSSecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client: sesv2.NewFromConfig(awsCfg),
		sender: cfg.EmailSender,
	}, nil
}

// Send delivers one HTML email through SES
func (m *SESMailer) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", recipient, err)
	}

	return nil
}

// FormatSummaryHTML renders a daily summary as the notification email body.
func FormatSummaryHTML(date string, content *models.SummaryContent) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n", html.EscapeString(date)))
	writeSection(&sb, "Family", content.FamilyInfo)
	writeSection(&sb, "Business", content.BusinessInfo)
	writeSection(&sb, "Misc", content.MiscInfo)

	return sb.String()
}

func writeSection(sb *strings.Builder, title string, items []string) {
	sb.WriteString(fmt.Sprintf("<h2>%s</h2>\n<ul>\n", title))
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("<li>%s</li>\n", html.EscapeString(item)))
	}
	sb.WriteString("</ul>\n")
}
