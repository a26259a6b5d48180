// Package heartbeat blinks the board LED on every timer period and
// publishes the audio path counters alongside it.
package heartbeat

import (
	"context"
	"time"

	"seed-go/audio"
	"seed-go/bus"
	"seed-go/x/logx"
)

var TopicAudioStats = bus.Topic{"audio", "stats"}

// Timer reports and clears a pending period.
type Timer interface {
	Expired() bool
}

type LED interface {
	Toggle()
}

type StatsSource interface {
	Stats() audio.Stats
}

type Service struct {
	Timer Timer
	LED   LED
	Audio StatsSource
	Log   *logx.Logger

	// Poll is how often the timer flag is checked. Zero means 1 ms.
	Poll time.Duration

	beats uint32
	last  audio.Stats
}

// Beat runs one heartbeat if the timer has expired and reports whether it did.
func (s *Service) Beat(conn *bus.Connection) bool {
	if !s.Timer.Expired() {
		return false
	}
	s.beats++
	if s.LED != nil {
		s.LED.Toggle()
	}
	if s.Audio == nil {
		return true
	}
	st := s.Audio.Stats()
	if st.Overruns != s.last.Overruns || st.Skipped != s.last.Skipped {
		s.Log.Warn("audio late",
			logx.U32("overruns", st.Overruns),
			logx.U32("skipped", st.Skipped))
	}
	s.last = st
	if conn != nil {
		conn.Publish(conn.NewMessage(TopicAudioStats, st, true))
	}
	return true
}

// Beats returns how many periods have been handled.
func (s *Service) Beats() uint32 { return s.beats }

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	poll := s.Poll
	if poll <= 0 {
		poll = time.Millisecond
	}
	tick := time.NewTicker(poll)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Log.Info("heartbeat stopping")
			return
		case <-tick.C:
			s.Beat(conn)
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}
