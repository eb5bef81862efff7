package session

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// StartSweeper schedules a periodic DeleteExpired sweep so expired rows
// do not accumulate. The returned cron can be stopped on shutdown.
func StartSweeper(repo Repository, schedule string, logger *slog.Logger) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		count, err := repo.DeleteExpired()
		if err != nil {
			logger.Error("session sweep failed", "error", err)
			return
		}
		if count > 0 {
			logger.Info("session sweep", "deleted", count)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
