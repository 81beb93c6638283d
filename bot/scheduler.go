package bot

import (
	"log"

	"github.com/robfig/cron/v3"
)

var c *cron.Cron

// startScheduler starts the cron jobs. The index is rebuilt after
// every mutation already; the hourly rebuild converges the cache when
// the database changed out-of-band.
func startScheduler(b *Bot) {
	log.Println("Initializing scheduler...")
	c = cron.New()
	_, err := c.AddFunc("@hourly", func() {
		log.Println("Running hourly trigger index rebuild...")
		if err := b.RefreshIndex(); err != nil {
			log.Printf("Scheduled index rebuild failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Could not set up cron job: %v", err)
	}
	c.Start()
	log.Println("Cron job scheduled to rebuild the trigger index hourly.")
}

// stopScheduler stops the cron jobs.
func stopScheduler() {
	if c != nil {
		c.Stop()
		log.Println("Scheduler stopped.")
	}
}
