package jobs

import (
	"context"

	"alumni-connect-backend/internal/logger"
)

// RefreshMentorStats recomputes mentor ratings and mentee totals from the
// mentorship requests, repairing any drift left by edits outside the workflows
func (jr *JobRunner) RefreshMentorStats() {
	jr.runWithRecovery("RefreshMentorStats", func() {
		ctx := context.Background()

		changed, err := jr.services.Mentor.RefreshStats(ctx)
		if err != nil {
			logger.Error("Failed to refresh mentor stats", "error", err)
			return
		}
		logger.Info("Refreshed mentor stats", "changed", changed)
	})
}
