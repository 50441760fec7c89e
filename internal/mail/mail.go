// Package mail delivers transactional email through AWS SES.
package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Sender sends email from a fixed verified address.
type Sender struct {
	client *ses.Client
	from   string
}

// NewSender builds a Sender using the default AWS credential chain.
func NewSender(ctx context.Context, from string) (*Sender, error) {
	if from == "" {
		return nil, fmt.Errorf("mail: from address is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("mail: load aws config: %w", err)
	}

	return &Sender{client: ses.NewFromConfig(cfg), from: from}, nil
}

// Send delivers one HTML email. There is no retry; a failure is the caller's
// failure.
func (s *Sender) Send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(htmlBody),
				},
			},
		},
		Source: aws.String(s.from),
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// SendVerification mails the account verification link for a fresh signup.
func (s *Sender) SendVerification(ctx context.Context, to, verificationURL string) error {
	body := fmt.Sprintf(`<a href="%s">Click here</a> to verify your email address.`, verificationURL)
	return s.Send(ctx, to, "Please verify your email address", body)
}
