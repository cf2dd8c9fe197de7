package notify_test

import (
	"context"
	"sync"

	"github.com/civiclens/civiclens-api/api/notify"
)

// fakeRealtime records deliveries and fails the user ids listed in failFor.
// Safe for concurrent use by fan-out workers.
type fakeRealtime struct {
	mu        sync.Mutex
	delivered []notify.Payload
	users     []string
	failFor   map[string]error
}

func (f *fakeRealtime) Deliver(userID string, payload notify.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[userID]; ok {
		return err
	}
	f.delivered = append(f.delivered, payload)
	f.users = append(f.users, userID)
	return nil
}

func (f *fakeRealtime) deliveredTo(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u == userID {
			return true
		}
	}
	return false
}

func (f *fakeRealtime) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delivered)
}

// fakeEmail records sends and fails the addresses listed in failFor
type fakeEmail struct {
	mu      sync.Mutex
	sent    []notify.Email
	failFor map[string]error
}

func (f *fakeEmail) Send(ctx context.Context, email notify.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[email.To]; ok {
		return err
	}
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeEmail) sentTo(address string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.sent {
		if e.To == address {
			return true
		}
	}
	return false
}

func (f *fakeEmail) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}
