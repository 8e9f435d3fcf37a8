package logging

import (
	"log/slog"
	"time"

	"github.com/Sylgau-exe/gapanalysis/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// PruneSystemLogs deletes system_logs rows older than retention.
func PruneSystemLogs(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules a daily prune of old system logs. Call Stop on the
// returned scheduler during shutdown.
func StartCleanup(db *gorm.DB, retentionDays int) *cron.Cron {
	retention := time.Duration(retentionDays) * 24 * time.Hour

	c := cron.New(cron.WithLocation(time.UTC))
	_, _ = c.AddFunc("@daily", func() {
		deleted, err := PruneSystemLogs(db, retention)
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	c.Start()
	return c
}
