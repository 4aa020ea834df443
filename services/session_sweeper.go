package services

import (
	"time"

	"github.com/platemate/dinein-api/events"
	"github.com/platemate/dinein-api/utils"
)

// SessionSweeper runs the expiration sweep on a fixed interval,
// independent of request traffic. Request-time lazy expiration in Join and
// this loop share the same transition, so running both never
// double-expires a session.
type SessionSweeper struct {
	Sessions *SessionService
	Interval time.Duration
	StopChan chan struct{}
}

func NewSessionSweeper(sessions *SessionService, interval time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &SessionSweeper{
		Sessions: sessions,
		Interval: interval,
		StopChan: make(chan struct{}),
	}
}

func (sw *SessionSweeper) Start() {
	go func() {
		ticker := time.NewTicker(sw.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				swept, err := sw.Sessions.SweepExpired()
				if err != nil {
					utils.ErrorLogger.Printf("Session sweep failed: %v", err)
					continue
				}
				events.BroadcastSessionsExpired(swept)
			case <-sw.StopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Printf("Session sweeper started (interval %s)", sw.Interval)
}

func (sw *SessionSweeper) Stop() {
	close(sw.StopChan)
}
