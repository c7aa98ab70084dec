package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

// InitializeSchedules starts all the cron jobs (currently just the session sweeper).
// The returned cron must be stopped on shutdown.
func (serverHandler *ServerHandler) InitializeSchedules() *cron.Cron {
	interval := serverHandler.ServerConfig.SweepInterval
	if interval <= 0 {
		interval = 5
	}

	c := cron.New()
	var sweepJob cron.Job
	sweepJob = cron.FuncJob(serverHandler.sweepJobFunc)
	sweepJob = cron.NewChain(cron.SkipIfStillRunning(cron.DefaultLogger)).Then(sweepJob) //ensure we don't kick off another if old one is still running
	if _, err := c.AddJob(fmt.Sprintf("@every %dm", interval), sweepJob); err != nil {
		Logger.Error("Unable to schedule session sweeper", "error", err)
		return c
	}
	Logger.Info("Adding session sweeper", "interval_minutes", interval, "ttl", serverHandler.ServerConfig.SessionTTL)
	c.Start()
	return c
}

func (serverHandler *ServerHandler) sweepJobFunc() {
	// Add panic recovery to prevent entire application crash
	defer func() {
		if r := recover(); r != nil {
			Logger.Error("Panic recovered in session sweeper", "panic", r)
		}
	}()

	removed := serverHandler.Sessions.Sweep(time.Now(), serverHandler.ServerConfig.SessionTTL)
	if removed > 0 {
		Logger.Info("Evicted idle sessions", "removed", removed, "remaining", serverHandler.Sessions.Len())
	}
}
