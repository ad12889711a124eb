package jobs

import (
	"context"

	"alumni-connect-backend/internal/domain"
	"alumni-connect-backend/internal/logger"
)

// SendEventReminders notifies confirmed attendees of events held tomorrow
func (jr *JobRunner) SendEventReminders() {
	jr.runWithRecovery("SendEventReminders", func() {
		ctx := context.Background()
		day := jr.today().AddDate(0, 0, 1).Format(domain.DateLayout)

		sent, err := jr.services.Event.SendReminders(ctx, day)
		if err != nil {
			logger.Error("Failed to send event reminders", "day", day, "error", err)
			return
		}
		logger.Info("Sent event reminders", "day", day, "count", sent)
	})
}

// CompletePastEvents marks upcoming events dated before today as completed
func (jr *JobRunner) CompletePastEvents() {
	jr.runWithRecovery("CompletePastEvents", func() {
		ctx := context.Background()
		today := jr.today().Format(domain.DateLayout)

		completed, err := jr.services.Event.CompletePast(ctx, today)
		if err != nil {
			logger.Error("Failed to complete past events", "today", today, "error", err)
			return
		}
		logger.Info("Marked past events as completed", "count", completed)
	})
}
