package local

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sesv2 "github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/google/uuid"

	"github.com/sant0-9/quill/internal/mailbox"
)

// Sender delivers a finished message and returns the transport's message id.
type Sender interface {
	Name() string
	Send(ctx context.Context, from string, msg mailbox.Message) (string, error)
}

// SESConfig holds the configuration for creating a SESSender.
type SESConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
}

// SendEmailAPI is the subset of the SES v2 client the sender needs.
type SendEmailAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender sends raw messages through AWS SES v2. It makes exactly one
// attempt per call.
type SESSender struct {
	client SendEmailAPI
}

func NewSESSender(ctx context.Context, cfg SESConfig) (*SESSender, error) {
	var opts []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESSender{client: sesv2.NewFromConfig(awsCfg)}, nil
}

// NewSESSenderWithClient is used by tests to inject a fake client.
func NewSESSenderWithClient(client SendEmailAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Name() string {
	return "ses"
}

func (s *SESSender) Send(ctx context.Context, from string, msg mailbox.Message) (string, error) {
	raw, err := mailbox.BuildRaw(from, msg)
	if err != nil {
		return "", fmt.Errorf("failed to build raw message: %w", err)
	}

	out, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Raw: &types.RawMessage{Data: raw},
		},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.MessageId), nil
}

// WriterSender prints messages to a writer instead of delivering them.
type WriterSender struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSender(w io.Writer) *WriterSender {
	return &WriterSender{w: w}
}

func (s *WriterSender) Name() string {
	return "stdout"
}

func (s *WriterSender) Send(ctx context.Context, from string, msg mailbox.Message) (string, error) {
	raw, err := mailbox.BuildRaw(from, msg)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintf(s.w, "----- message %s -----\r\n%s\r\n----- end -----\r\n", id, raw); err != nil {
		return "", err
	}
	return id, nil
}
