package sns

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/moim/ledger-notify/internal/config"
	"github.com/moim/ledger-notify/internal/domain"
)

// androidChannel is the client-side notification channel transaction alerts
// are routed to.
const androidChannel = "transaction_notification"

// ErrEndpointDisabled reports a push address the gateway considers permanently
// dead. Callers may drop the stored token.
var ErrEndpointDisabled = errors.New("push endpoint disabled")

// PushSender delivers one notification to one device endpoint.
type PushSender interface {
	Send(ctx context.Context, endpointARN string, n *domain.Notification) error
}

type sender struct {
	client *sns.Client
}

func NewSender(cfg *config.Config) (PushSender, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.SNSRegion),
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &sender{client: sns.NewFromConfig(awsCfg, clientOpts...)}, nil
}

func (s *sender) Send(ctx context.Context, endpointARN string, n *domain.Notification) error {
	msg, err := buildPushMessage(n)
	if err != nil {
		return err
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(endpointARN),
		Message:          aws.String(msg),
		MessageStructure: aws.String("json"),
	})
	if err != nil {
		var disabled *snstypes.EndpointDisabledException
		if errors.As(err, &disabled) {
			return fmt.Errorf("publish to %s: %w", endpointARN, ErrEndpointDisabled)
		}
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// gcmMessage mirrors the FCM HTTP payload SNS forwards to Android devices.
type gcmMessage struct {
	Notification gcmNotification   `json:"notification"`
	Data         map[string]string `json:"data"`
	Android      gcmAndroid        `json:"android"`
}

type gcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type gcmAndroid struct {
	Notification gcmChannel `json:"notification"`
}

type gcmChannel struct {
	ChannelID string `json:"channelId"`
}

// buildPushMessage renders the SNS multi-protocol message for a notification.
// The data map carries the type tag and deep-link ids for client routing.
func buildPushMessage(n *domain.Notification) (string, error) {
	gcm, err := json.Marshal(gcmMessage{
		Notification: gcmNotification{Title: n.Title, Body: n.Content},
		Data: map[string]string{
			"type":          string(n.Type),
			"transactionId": n.Data.TransactionID,
			"groupId":       n.Data.GroupID,
		},
		Android: gcmAndroid{Notification: gcmChannel{ChannelID: androidChannel}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gcm payload: %w", err)
	}
	wrapper, err := json.Marshal(map[string]string{
		"default": n.Content,
		"GCM":     string(gcm),
	})
	if err != nil {
		return "", fmt.Errorf("marshal sns message: %w", err)
	}
	return string(wrapper), nil
}
