// internal/mailbox/ses.go
package mailbox

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	apperrors "prospector/internal/common/errors"
)

// SESSender delivers the generated email directly through Amazon SES instead
// of leaving a draft. Useful when no Gmail account is connected.
type SESSender struct {
	client    *ses.Client
	fromEmail string
}

func NewSESSender(ctx context.Context, region, fromEmail string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESSender{client: ses.NewFromConfig(cfg), fromEmail: fromEmail}, nil
}

func (s *SESSender) CreateDraft(ctx context.Context, msg Message) error {
	html := strings.ReplaceAll(msg.Body, "\n", "<br>")

	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(html), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(msg.Body), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return apperrors.NewMailboxDraftFailedError(err)
	}
	return nil
}
