// Package scheduler runs periodic background jobs. The only job today is the
// nightly digest that reminds administrators about stale pending reports.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/civiclens/civiclens-api/api/notify"
	"github.com/civiclens/civiclens-api/databases"
	templates "github.com/civiclens/civiclens-api/templates/html"
)

// pendingAge is how long a report may sit in PENDING before it counts as
// stale for the digest
const pendingAge = 24 * time.Hour

// jobTimeout bounds one digest run end to end
const jobTimeout = 5 * time.Minute

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron     *cron.Cron
	RDB      databases.ReportDatabase
	UDB      databases.UserDatabase
	Email    notify.EmailChannel
	schedule string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(rDB databases.ReportDatabase, uDB databases.UserDatabase, email notify.EmailChannel, schedule string) *Scheduler {
	if schedule == "" {
		schedule = "@daily"
	}
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		RDB:      rDB,
		UDB:      uDB,
		Email:    email,
		schedule: schedule,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.runPendingDigest); err != nil {
		zap.S().Errorw("failed to register pending digest job", "schedule", s.schedule, "error", err)
		return
	}
	s.cron.Start()
	zap.S().Infow("scheduler started", "schedule", s.schedule)
}

// Stop halts the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// runPendingDigest counts reports stuck in PENDING for more than pendingAge
// and emails every administrator. Failures to reach one admin do not stop
// the others.
func (s *Scheduler) runPendingDigest() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	cutoff := primitive.NewDateTimeFromTime(time.Now().Add(-pendingAge))
	count, err := s.RDB.CountDocuments(ctx, bson.M{
		"status":    "PENDING",
		"createdAt": bson.M{"$lt": cutoff},
	})
	if err != nil {
		zap.S().Errorw("pending digest count failed", "error", err)
		return
	}
	if count == 0 {
		zap.S().Debug("pending digest: nothing to report")
		return
	}

	admins, err := s.UDB.Find(ctx, bson.M{"admin": true})
	if err != nil {
		zap.S().Errorw("pending digest could not load admins", "error", err)
		return
	}

	for _, admin := range admins {
		err := s.Email.Send(ctx, notify.Email{
			To:        admin.Email,
			ToName:    admin.DisplayName,
			Subject:   "Pending reports awaiting review",
			PlainText: "There are reports waiting in PENDING for more than 24 hours. Please review the moderation queue.",
			HTML:      templates.RenderPendingDigest(count),
		})
		if err != nil {
			zap.S().Warnw("pending digest email failed", "email", admin.Email, "error", err)
		}
	}
	zap.S().Infow("pending digest sent", "stalePending", count, "admins", len(admins))
}
