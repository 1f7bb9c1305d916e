package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/mwhayford/rental-service/internal/domain"
)

// PaymentIntentRequest describes a charge to create on the gateway.
type PaymentIntentRequest struct {
	Amount      domain.Money
	UserID      string
	Purpose     domain.PaymentPurpose
	ReferenceID string
}

// PaymentIntent is the gateway's handle for a pending charge.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway abstracts the external billing provider. The provider
// owns the real charge lifecycle; our records mirror it through
// confirmation callbacks.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	CancelIntent(ctx context.Context, intentID string) error
	RefundIntent(ctx context.Context, intentID string, amount domain.Money) error
}

// localGateway is a deterministic in-process gateway used in development
// and tests. Intents always exist and refunds always settle.
type localGateway struct {
	secretKey string
}

// NewLocalGateway constructs the in-process gateway.
func NewLocalGateway(secretKey string) PaymentGateway {
	return &localGateway{secretKey: secretKey}
}

func (g *localGateway) CreateIntent(_ context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	id := "pi_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	return &PaymentIntent{
		ID:           id,
		ClientSecret: id + "_secret_" + uuid.NewString()[:8],
	}, nil
}

func (g *localGateway) CancelIntent(_ context.Context, _ string) error {
	return nil
}

func (g *localGateway) RefundIntent(_ context.Context, _ string, _ domain.Money) error {
	return nil
}
