// File: internal/jobs/pending_reminder.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"dormview_backend/internal/config"
	"dormview_backend/internal/moderation"
	"dormview_backend/internal/push"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// PendingReminderJob periodically checks the moderation queues and pings the
// admin topic when submissions are waiting for review.
type PendingReminderJob struct {
	moderationService moderation.Service
	notifier          push.Notifier
	logger            *zap.Logger
	cfg               *config.Config
	cronScheduler     *cron.Cron
}

// NewPendingReminderJob creates a new PendingReminderJob.
func NewPendingReminderJob(
	moderationService moderation.Service,
	notifier push.Notifier,
	logger *zap.Logger,
	cfg *config.Config,
) *PendingReminderJob {
	scheduler := cron.New(cron.WithLogger(NewCronLogger(logger.Named("cron"))))

	return &PendingReminderJob{
		moderationService: moderationService,
		notifier:          notifier,
		logger:            logger.Named("PendingReminderJob"),
		cfg:               cfg,
		cronScheduler:     scheduler,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *PendingReminderJob) SetupAndStart() error {
	jobSpec := j.cfg.PendingReminderJobSchedule // e.g. "@daily", "0 9 * * *"
	if jobSpec == "" {
		j.logger.Warn("Pending reminder job schedule not defined (PENDING_REMINDER_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule pending reminder job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Pending reminder job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

// runJob is the actual work performed by the cron job.
func (j *PendingReminderJob) runJob() {
	j.logger.Info("Starting pending reminder job run...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	summary, err := j.moderationService.PendingSummary(ctx)
	if err != nil {
		j.logger.Error("Pending reminder job run failed", zap.Error(err))
		return
	}

	reminded := 0
	if summary.HasPendingSchools {
		if err := j.notifier.NotifySubmissionPending(ctx, push.TypeSchool); err != nil {
			j.logger.Error("Failed to push school reminder", zap.Error(err))
		} else {
			reminded++
		}
	}
	if summary.HasPendingDorms {
		if err := j.notifier.NotifySubmissionPending(ctx, push.TypeDorm); err != nil {
			j.logger.Error("Failed to push dorm reminder", zap.Error(err))
		} else {
			reminded++
		}
	}
	if summary.HasPendingPhotos {
		if err := j.notifier.NotifySubmissionPending(ctx, push.TypePhoto); err != nil {
			j.logger.Error("Failed to push photo reminder", zap.Error(err))
		} else {
			reminded++
		}
	}

	j.logger.Info("Pending reminder job run completed", zap.Int("reminders_sent", reminded))
}

// Stop gracefully stops the cron scheduler.
func (j *PendingReminderJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping pending reminder job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Pending reminder job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Pending reminder job scheduler stop timed out.")
		}
	}
}

// --- Cron Logger Adapter ---

// cronLogger adapts zap.Logger to cron.Logger interface.
type cronLogger struct {
	zl *zap.Logger
}

// NewCronLogger creates a new cronLogger.
func NewCronLogger(zl *zap.Logger) cron.Logger {
	return &cronLogger{zl: zl}
}

// Info logs routine messages from cron.
func (cl *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	cl.zl.Info(msg, fields...)
}

// Error logs error messages from cron.
func (cl *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := cl.parseKeysAndValues(keysAndValues...)
	fields = append(fields, zap.Error(err))
	cl.zl.Error(msg, fields...)
}

func (cl *cronLogger) parseKeysAndValues(keysAndValues ...interface{}) []zap.Field {
	var fields []zap.Field
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 < len(keysAndValues) {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), keysAndValues[i+1]))
		} else {
			fields = append(fields, zap.Any(fmt.Sprintf("%v", keysAndValues[i]), "MISSING_VALUE"))
		}
	}
	return fields
}
