package feed

import (
	"context"
	"time"

	"ya_projects/internal/logger"

	"github.com/sirupsen/logrus"
)

// StartPolling импортирует ленты сразу и затем каждые interval, пока ctx не отменён.
func StartPolling(ctx context.Context, imp *Importer, urls []string, interval time.Duration) {
	log := logger.Log.WithFields(logrus.Fields{
		"service":  "poller",
		"interval": interval.String(),
		"feeds":    len(urls),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log.Info("Starting new polling cycle")
		n := imp.ImportAll(ctx, urls)
		log.WithField("imported", n).Info("Polling cycle finished")

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}
