package cli

import (
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/arialabs/aria/internal/config"
	"github.com/arialabs/aria/internal/decode"
	"github.com/arialabs/aria/internal/engine"
	"github.com/arialabs/aria/internal/errors"
	"github.com/arialabs/aria/internal/logging"
	"github.com/arialabs/aria/internal/playlist"
	"github.com/arialabs/aria/internal/ring"
	"github.com/arialabs/aria/internal/sink"
)

// session wires together everything a command needs: the engine, its
// output device, the playlist store, and the persisted queue. Each CLI
// invocation owns exactly one session.
type session struct {
	cfg       *config.Config
	log       *zap.Logger
	eng       *engine.Engine
	playlists *playlist.Store
	state     *playlist.Store
}

// newSession builds a session from the loaded config. The audio device
// is not opened until playback starts.
func newSession() (*session, error) {
	log := logging.New(cfg.Log)

	out, err := sink.NewMalgo(int(decode.SampleRate), decode.Channels, log)
	if err != nil {
		return nil, errors.WithSuggestion(err,
			"check that an audio backend (ALSA, PulseAudio, CoreAudio) is available")
	}

	playlistDir, err := playlist.DefaultDir()
	if err != nil {
		return nil, err
	}
	playlists, err := playlist.NewStore(playlistDir)
	if err != nil {
		return nil, err
	}
	// The persisted queue lives next to the playlists, not among them.
	state, err := playlist.NewStore(filepath.Dir(playlistDir))
	if err != nil {
		return nil, err
	}

	eng := engine.New(engine.Options{
		Output:                 out,
		Store:                  playlists,
		Log:                    log,
		RingCapacity:           time.Duration(cfg.Playback.RingCapacityMillis) * time.Millisecond,
		LowWater:               time.Duration(cfg.Playback.LowWaterMillis) * time.Millisecond,
		OverflowPolicy:         overflowPolicy(cfg.Playback.OverflowPolicy),
		OnDecodeError:          failurePolicy(cfg.Playback.OnDecodeError),
		MaxConsecutiveFailures: cfg.Playback.MaxConsecutiveFailures,
		Volume:                 cfg.Defaults.Volume,
		Device:                 cfg.Defaults.Device,
	})

	s := &session{
		cfg:       cfg,
		log:       log,
		eng:       eng,
		playlists: playlists,
		state:     state,
	}
	s.restoreQueue()
	return s, nil
}

func (s *session) close() {
	s.eng.Close()
	s.log.Sync()
}

const queueStateName = "queue"

// restoreQueue reloads the queue saved by the previous invocation.
// Tracks whose files have since disappeared are dropped.
func (s *session) restoreQueue() {
	tracks, err := s.state.Load(queueStateName)
	if err != nil {
		return
	}
	for _, t := range tracks {
		if _, err := s.eng.QueueAdd(t.Path); err != nil {
			s.log.Debug("dropping stale queue entry",
				zap.String("path", t.Path), zap.Error(err))
		}
	}
}

// persistQueue saves the queue so the next invocation sees it.
func (s *session) persistQueue() {
	q, err := s.eng.QueueList()
	if err != nil {
		s.log.Warn("reading queue", zap.Error(err))
		return
	}
	if err := s.state.Save(queueStateName, q.Tracks); err != nil {
		s.log.Warn("persisting queue", zap.Error(err))
	}
}

// persistPrefs writes volume and device back to the config file.
func (s *session) persistPrefs() {
	s.cfg.Defaults.Volume = s.eng.Volume()
	s.cfg.Defaults.Device = s.eng.Snapshot().Device
	if err := s.cfg.Save(cfgFile); err != nil {
		s.log.Warn("persisting preferences", zap.Error(err))
	}
}

func overflowPolicy(name string) ring.Policy {
	if name == "drop_oldest" {
		return ring.PolicyDropOldest
	}
	return ring.PolicyWait
}

func failurePolicy(name string) engine.FailurePolicy {
	if name == "stop" {
		return engine.FailureStop
	}
	return engine.FailureSkip
}
