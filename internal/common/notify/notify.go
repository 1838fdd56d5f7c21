// Package notify delivers the session summary after a successful run.
// Delivery is fire-and-forget: a failure is logged, never surfaced.
package notify

import (
	"context"

	"card-advisor/internal/common/config"
	"card-advisor/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Notifier sends the summary text over the configured channel.
type Notifier interface {
	Notify(ctx context.Context, subject, body string) error
}

// Nop is used when notifications are disabled.
type Nop struct{}

func (Nop) Notify(context.Context, string, string) error { return nil }

// EmailNotifier delivers summaries by SES email.
type EmailNotifier struct {
	client *ses.Client
	from   string
	to     string
	logger logger.Logger
}

func NewEmailNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*EmailNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &EmailNotifier{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.EmailFrom,
		to:     cfg.EmailTo,
		logger: log,
	}, nil
}

func (n *EmailNotifier) Notify(ctx context.Context, subject, body string) error {
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.from),
		Destination: &sestypes.Destination{
			ToAddresses: []string{n.to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("summary email failed", map[string]interface{}{"error": err.Error()})
	}
	return err
}

// TopicNotifier publishes summaries to an SNS topic.
type TopicNotifier struct {
	client *sns.Client
	topic  string
	logger logger.Logger
}

func NewTopicNotifier(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*TopicNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &TopicNotifier{
		client: sns.NewFromConfig(awsCfg),
		topic:  cfg.SNSTopicARN,
		logger: log,
	}, nil
}

func (n *TopicNotifier) Notify(ctx context.Context, subject, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topic),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		n.logger.Warn("summary publish failed", map[string]interface{}{"error": err.Error()})
	}
	return err
}
