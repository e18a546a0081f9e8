package gate

import (
	"context"

	"github.com/zengest/platform/internal/api/dto"
	"github.com/zengest/platform/internal/bus"
)

// BusVerifier performs the verify call against the identity authority over
// the message bus. No retries: a silent retry of a verify could mask an
// attacker probing for timing windows.
type BusVerifier struct {
	client *bus.Client
}

// NewBusVerifier constructs the verifier.
func NewBusVerifier(client *bus.Client) *BusVerifier {
	return &BusVerifier{client: client}
}

// Verify implements AccessVerifier.
func (v *BusVerifier) Verify(ctx context.Context, accessToken string) (*dto.VerifyResponse, error) {
	var out dto.VerifyResponse
	if err := v.client.RequestInto(ctx, bus.SubjectVerify, dto.VerifyRequest{AccessToken: accessToken}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
