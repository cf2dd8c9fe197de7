package handlers_test

import (
	"context"
	"errors"

	"github.com/civiclens/civiclens-api/api/notify"
)

// noopRealtime accepts every push
type noopRealtime struct{}

func (noopRealtime) Deliver(userID string, payload notify.Payload) error { return nil }

// noopEmail accepts every send
type noopEmail struct{}

func (noopEmail) Send(ctx context.Context, email notify.Email) error { return nil }

// failingRealtime rejects every push
type failingRealtime struct{}

func (failingRealtime) Deliver(userID string, payload notify.Payload) error {
	return errors.New("socket closed")
}

// failingEmail rejects every send
type failingEmail struct{}

func (failingEmail) Send(ctx context.Context, email notify.Email) error {
	return errors.New("rate limited")
}
