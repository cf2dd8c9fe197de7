package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/databases"
	"github.com/civiclens/civiclens-api/models"
	templates "github.com/civiclens/civiclens-api/templates/html"
)

// defaultFanoutWorkers bounds concurrent outbound deliveries when no worker
// count is configured
const defaultFanoutWorkers = 8

// Fanout dispatches proximity alerts for newly created reports to every
// subscriber whose personal radius covers the report location
type Fanout struct {
	Users    databases.UserDatabase
	Realtime RealtimeChannel
	Email    EmailChannel
	Workers  int
}

// FanoutResult summarizes one fan-out run. Only observability consumes it,
// callers must not fail report creation on its contents.
type FanoutResult struct {
	Recipients       int
	RealtimeFailures int64
	EmailFailures    int64
}

// NotifyNearby alerts every user within their own notification radius of the
// report, excluding the author. Recipients are handled independently on a
// bounded worker pool: a failed delivery to one recipient never blocks or
// aborts the others, and no failure is surfaced to the caller.
func (f Fanout) NotifyNearby(ctx context.Context, report models.Report) FanoutResult {
	users, err := f.Users.FindWithLocation(ctx)
	if err != nil {
		zap.S().Errorw("proximity fanout could not load subscribers",
			"reportId", report.ID.Hex(),
			"error", err,
		)
		return FanoutResult{}
	}

	type recipient struct {
		user       models.User
		distanceKm float64
	}

	var recipients []recipient
	for _, user := range users {
		if user.Location == nil || user.ID.Hex() == report.AuthorID {
			continue
		}
		d := DistanceKm(user.Location.Latitude, user.Location.Longitude,
			report.Location.Latitude, report.Location.Longitude)
		if d <= user.RadiusKm {
			recipients = append(recipients, recipient{user: user, distanceKm: d})
		}
	}
	if len(recipients) == 0 {
		return FanoutResult{}
	}

	workers := f.Workers
	if workers <= 0 {
		workers = defaultFanoutWorkers
	}
	if workers > len(recipients) {
		workers = len(recipients)
	}

	var realtimeFailures, emailFailures int64
	jobs := make(chan recipient)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				f.deliverProximityAlert(ctx, report, job.user, job.distanceKm, &realtimeFailures, &emailFailures)
			}
		}()
	}
	for _, r := range recipients {
		jobs <- r
	}
	close(jobs)
	wg.Wait()

	result := FanoutResult{
		Recipients:       len(recipients),
		RealtimeFailures: atomic.LoadInt64(&realtimeFailures),
		EmailFailures:    atomic.LoadInt64(&emailFailures),
	}
	zap.S().Infow("proximity fanout finished",
		"reportId", report.ID.Hex(),
		"recipients", result.Recipients,
		"realtimeFailures", result.RealtimeFailures,
		"emailFailures", result.EmailFailures,
	)
	return result
}

// deliverProximityAlert attempts both channels for one recipient. Each
// channel failure is counted and logged, then the other channel is still
// attempted.
func (f Fanout) deliverProximityAlert(ctx context.Context, report models.Report, user models.User, distanceKm float64, realtimeFailures, emailFailures *int64) {
	payload := Payload{
		Kind:       KindProximityAlert,
		ReportID:   report.ID.Hex(),
		Title:      report.Title,
		Body:       report.Description,
		DistanceKm: distanceKm,
	}
	if err := f.Realtime.Deliver(user.ID.Hex(), payload); err != nil {
		atomic.AddInt64(realtimeFailures, 1)
		zap.S().Warnw("proximity alert realtime delivery failed",
			"reportId", report.ID.Hex(),
			"userId", user.ID.Hex(),
			"error", err,
		)
	}

	if err := f.Email.Send(ctx, Email{
		To:        user.Email,
		ToName:    user.DisplayName,
		Subject:   "New incident reported near you",
		PlainText: "A new incident was reported near you: " + report.Title + ". " + report.Description,
		HTML:      templates.RenderProximityAlert(user.DisplayName, report.Title, report.Description, distanceKm),
	}); err != nil {
		atomic.AddInt64(emailFailures, 1)
		zap.S().Warnw("proximity alert email delivery failed",
			"reportId", report.ID.Hex(),
			"userId", user.ID.Hex(),
			"email", user.Email,
			"error", err,
		)
	}
}
