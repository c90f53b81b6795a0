package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/yotsugi/groovebot/internal/modules/music/application/idletimer"
	"github.com/yotsugi/groovebot/internal/modules/music/application/ports"
	"github.com/yotsugi/groovebot/internal/modules/music/domain"
)

// TrackResolver re-resolves raw playlist entries into playable tracks
// during the drain step.
type TrackResolver interface {
	ResolveTrack(ctx context.Context, uri, requester string) (*domain.Track, error)
}

// PlaybackService owns the drain loop and every transport-facing state
// transition: advance, skip, pause, resume, stop, volume and loop.
type PlaybackService struct {
	repo      domain.SessionRepository
	transport ports.AudioTransport
	resolver  TrackResolver
	timers    *idletimer.Manager
	publisher ports.EventPublisher
	notifier  ports.StatusNotifier
	idleDelay time.Duration
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.SessionRepository,
	transport ports.AudioTransport,
	resolver TrackResolver,
	timers *idletimer.Manager,
	publisher ports.EventPublisher,
	notifier ports.StatusNotifier,
	idleDelay time.Duration,
) *PlaybackService {
	return &PlaybackService{
		repo:      repo,
		transport: transport,
		resolver:  resolver,
		timers:    timers,
		publisher: publisher,
		notifier:  notifier,
		idleDelay: idleDelay,
	}
}

// Advance runs one drain step: requeue the finished track if looping, pop
// the next pending track, bind it as current and start transport output at
// the session volume. An empty queue returns the session to idle and arms
// the disconnect timer.
//
// Advance is invoked from exactly three places, once per trigger: the
// enqueue-while-idle event, the transport's track-ended event, and Skip.
// reason is empty for the start triggers; for track ends it tells Advance
// whether the bound current actually finished (and may loop-requeue) or was
// already detached by Skip/Stop. endedTrackID names the track the transport
// reported on, so an end event that was overtaken by a skip cannot detach
// the track the skip already started.
func (s *PlaybackService) Advance(
	ctx context.Context,
	guildID snowflake.ID,
	reason domain.TrackEndReason,
	endedTrackID string,
) error {
	session := s.repo.Get(guildID)
	if session == nil {
		return nil
	}

	var finished *domain.Track
	if reason == domain.TrackEndFinished || reason == domain.TrackEndLoadFailed {
		finished = session.TakeCurrentMatching(endedTrackID)
		if finished == nil && session.Current() != nil {
			// The end event names a track that is no longer bound: a skip
			// detached it and already started the next one.
			slog.Debug("ignoring end event for replaced track",
				"guild", guildID,
				"track", endedTrackID,
			)
			return nil
		}
	} else if session.Current() != nil {
		// A concurrent drain step already bound a track; starting another
		// would double-drive the transport.
		return nil
	}

	// Loop policy: a naturally finished track goes to the back of the
	// queue before the next one is popped. Skipped, stopped and failed
	// tracks are not requeued.
	if finished != nil && reason == domain.TrackEndFinished && session.Loop() {
		session.Enqueue(finished)
	}

	if finished != nil && reason == domain.TrackEndLoadFailed {
		s.notifier.SendStatus(session.NotificationChannelID(),
			fmt.Sprintf("Error playing **%s**: the stream could not be loaded", finished.Title))
	}

	for {
		next := session.PopFront()
		if next == nil {
			s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
			if s.transport.IsConnected(guildID) {
				s.notifier.SendStatus(session.NotificationChannelID(), fmt.Sprintf(
					"No songs in queue. Disconnecting in %d seconds if the queue stays empty.",
					int(s.idleDelay.Seconds()),
				))
				s.timers.Arm(guildID, s.idleDelay, func() {
					s.handleIdleFire(guildID)
				})
			}
			return nil
		}

		// Raw playlist entries carry no stream handle yet. The resolver
		// call suspends, so session state must be re-validated afterwards.
		if !next.Resolved {
			resolved, err := s.resolver.ResolveTrack(ctx, next.URI, next.Requester)
			if err != nil {
				slog.Warn("dropping unresolvable queue entry",
					"guild", guildID,
					"uri", next.URI,
					"error", err,
				)
				s.notifier.SendStatus(session.NotificationChannelID(),
					fmt.Sprintf("Skipping **%s**: %v", next.Title, err))
				continue
			}
			next = resolved
			if session.Current() != nil {
				// Playback started while we were resolving; keep the
				// track for the next drain step.
				session.PushFront(next)
				return nil
			}
		}

		s.timers.Cancel(guildID)
		session.SetCurrent(next)

		if err := s.transport.Play(ctx, guildID, next, session.Volume()); err != nil {
			// Leave the failed track at the head so the user can retry;
			// the session must not advance past it on its own.
			session.TakeCurrent()
			session.PushFront(next)
			s.notifier.SendStatus(session.NotificationChannelID(),
				fmt.Sprintf("Error playing **%s**: %v", next.Title, err))
			return fmt.Errorf("failed to start playback: %w", err)
		}

		s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
		return nil
	}
}

// Skip stops the current track and immediately drains the next one. Only
// valid while playing; duplicate skips race on detaching the current track,
// so at most one of them drives a drain step.
func (s *PlaybackService) Skip(ctx context.Context, guildID snowflake.ID) (*domain.Track, error) {
	session := s.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}
	if session.State() != domain.StatePlaying {
		return nil, ErrNotPlaying
	}

	skipped := session.TakeCurrent()
	if skipped == nil {
		return nil, ErrNotPlaying
	}

	// The transport's stop completion reports TrackEndStopped, which the
	// event handler ignores; this call is the single drain trigger.
	if err := s.transport.Stop(ctx, guildID); err != nil {
		// The track is still audible; rebind it so session state and
		// transport output keep agreeing.
		session.SetCurrent(skipped)
		return nil, fmt.Errorf("failed to stop playback: %w", err)
	}

	if err := s.Advance(ctx, guildID, "", ""); err != nil {
		return skipped, err
	}
	return skipped, nil
}

// Pause holds the current output. Valid only while playing.
func (s *PlaybackService) Pause(ctx context.Context, guildID snowflake.ID) error {
	session := s.repo.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}
	if session.State() != domain.StatePlaying {
		return ErrNotPlaying
	}

	if err := s.transport.Pause(ctx, guildID); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	session.SetPaused(true)
	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return nil
}

// Resume releases a held output. Valid only while paused.
func (s *PlaybackService) Resume(ctx context.Context, guildID snowflake.ID) error {
	session := s.repo.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}
	if session.State() != domain.StatePaused {
		return ErrNotPaused
	}

	if err := s.transport.Resume(ctx, guildID); err != nil {
		return fmt.Errorf("failed to resume: %w", err)
	}
	session.SetPaused(false)
	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return nil
}

// TogglePause flips between playing and paused, for the panel button.
// Returns true if the result is paused.
func (s *PlaybackService) TogglePause(ctx context.Context, guildID snowflake.ID) (bool, error) {
	session := s.repo.Get(guildID)
	if session == nil {
		return false, ErrNotConnected
	}

	switch session.State() {
	case domain.StatePlaying:
		return true, s.Pause(ctx, guildID)
	case domain.StatePaused:
		return false, s.Resume(ctx, guildID)
	default:
		return false, ErrNotPlaying
	}
}

// Stop clears the queue and halts the transport, returning the session to
// idle. The stopped track is never loop-requeued. The disconnect timer is
// armed since the queue is now empty.
func (s *PlaybackService) Stop(ctx context.Context, guildID snowflake.ID) error {
	session := s.repo.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}

	stopped := session.TakeCurrent()
	cleared := session.ClearQueue()
	if stopped == nil && cleared == 0 {
		return ErrNotPlaying
	}

	if stopped != nil {
		if err := s.transport.Stop(ctx, guildID); err != nil {
			return fmt.Errorf("failed to stop playback: %w", err)
		}
	}

	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	if s.transport.IsConnected(guildID) {
		s.timers.Arm(guildID, s.idleDelay, func() {
			s.handleIdleFire(guildID)
		})
	}
	return nil
}

// SetVolume clamps to [0,2] and propagates to the live output when a track
// is bound. percent is the user-facing 0-200 scale.
func (s *PlaybackService) SetVolume(
	ctx context.Context,
	guildID snowflake.ID,
	volume float64,
) (float64, error) {
	session := s.repo.GetOrCreate(guildID)

	clamped := session.SetVolume(volume)
	if session.Current() != nil {
		if err := s.transport.SetVolume(ctx, guildID, clamped); err != nil {
			return clamped, fmt.Errorf("failed to set output volume: %w", err)
		}
	}
	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return clamped, nil
}

// AdjustVolume shifts the volume by delta, clamped, for the panel buttons.
func (s *PlaybackService) AdjustVolume(
	ctx context.Context,
	guildID snowflake.ID,
	delta float64,
) (float64, error) {
	session := s.repo.GetOrCreate(guildID)
	return s.SetVolume(ctx, guildID, session.Volume()+delta)
}

// ToggleLoop flips the loop flag and returns the new value.
func (s *PlaybackService) ToggleLoop(guildID snowflake.ID) bool {
	session := s.repo.GetOrCreate(guildID)
	enabled := session.ToggleLoop()
	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})
	return enabled
}

// handleIdleFire runs when the disconnect timer goes off. The state may
// have changed since arming, so every condition is re-checked before the
// disconnect.
func (s *PlaybackService) handleIdleFire(guildID snowflake.ID) {
	session := s.repo.Get(guildID)
	if session == nil {
		return
	}
	if session.QueueLen() > 0 || session.State() != domain.StateIdle {
		return
	}
	if !s.transport.IsConnected(guildID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.transport.Disconnect(ctx, guildID); err != nil {
		slog.Warn("idle disconnect failed", "guild", guildID, "error", err)
		return
	}

	session.TakeCurrent()
	s.notifier.SendStatus(session.NotificationChannelID(), "Auto-disconnected due to inactivity")
	s.publisher.PublishPanelRefresh(domain.PanelRefreshEvent{GuildID: guildID})

	slog.Info("disconnected idle voice session", "guild", guildID)
}
