package cron

import (
	"context"

	"github.com/Adilzhan2201/Special_Network/internal/services"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// StartStorySweep schedules the hourly reclamation of expired stories.
// Reads filter on expiry themselves, so the cadence here only affects
// storage, never what callers see.
func StartStorySweep(storyService *services.StoryService) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		deleted, err := storyService.SweepExpired(context.Background())
		if err != nil {
			logrus.WithError(err).Error("Story sweep failed")
			return
		}
		if deleted > 0 {
			logrus.Infof("Story sweep reclaimed %d stories", deleted)
		}
	})

	c.Start()
	return c
}
