package notify

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/shaw8386/server/internal/config"
)

// Device tokens shorter than this cannot be real FCM registrations.
// The mobile client also sends "unknown" as a placeholder before it
// has obtained a token.
const minTokenLength = 20

const placeholderToken = "unknown"

var ErrNoCredentials = errors.New("no firebase credentials configured")

// FCMDispatcher delivers push notifications through Firebase Cloud
// Messaging. Delivery is fire-and-forget: invalid tokens are skipped
// locally and send failures are logged, never surfaced to the check
// pipeline.
type FCMDispatcher struct {
	client *messaging.Client
}

func NewFCMDispatcher(conf *config.FirebaseConfig) (*FCMDispatcher, error) {
	ctx := context.Background()

	var opt option.ClientOption
	switch {
	case os.Getenv("FIREBASE_KEY") != "":
		opt = option.WithCredentialsJSON([]byte(os.Getenv("FIREBASE_KEY")))
	case conf.CredentialsJSON != "":
		opt = option.WithCredentialsJSON([]byte(conf.CredentialsJSON))
	case conf.CredentialsFile != "":
		if _, err := os.Stat(conf.CredentialsFile); err != nil {
			return nil, ErrNoCredentials
		}
		opt = option.WithCredentialsFile(conf.CredentialsFile)
	default:
		return nil, ErrNoCredentials
	}

	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp -> %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Messaging -> %w", err)
	}

	return &FCMDispatcher{
		client: client,
	}, nil
}

func (d *FCMDispatcher) Send(ctx context.Context, token, title, body string) {
	if d.client == nil {
		return
	}

	if !ValidToken(token) {
		zap.L().Info("skipping notification, implausible token", zap.String("token", token))
		return
	}

	_, err := d.client.Send(ctx, &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: token,
	})
	if err != nil {
		zap.L().Warn("fcm send failed", zap.Error(err))
		return
	}

	zap.L().Info("fcm sent", zap.String("title", title))
}

// ValidToken rejects tokens that could never be delivered to: empty
// strings, the client-side placeholder, and anything too short to be a
// real registration token.
func ValidToken(token string) bool {
	return token != "" && token != placeholderToken && len(token) >= minTokenLength
}

// NoopDispatcher is used when FCM was never initialized; checks still
// run, notifications silently do nothing.
type NoopDispatcher struct{}

func NewNoopDispatcher() *NoopDispatcher {
	return &NoopDispatcher{}
}

func (d *NoopDispatcher) Send(ctx context.Context, token, title, body string) {}
