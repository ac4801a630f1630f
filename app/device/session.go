package device

import (
	"log"
	"sync"
	"time"

	"CounterPOS/app/notify"
	"CounterPOS/app/scheduler"
)

// Status is the camera session state.
type Status int

const (
	StatusIdle Status = iota
	StatusStarting
	StatusStreaming
	StatusStopping
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusStarting:
		return "starting"
	case StatusStreaming:
		return "streaming"
	case StatusStopping:
		return "stopping"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Camera issues device commands to the backend that owns the physical
// camera/scanner.
type Camera interface {
	StartCamera(mode int) error
	StopCamera() error
	ProbeVideoFeed() error
	VideoFeedURL() string
}

// PollScheduler drives the barcode poll timer.
type PollScheduler interface {
	Start(name string, interval time.Duration, task scheduler.Task)
	Stop(name string)
}

// Session is the sole mutator of the camera resource. Exactly one
// logical session may be starting or streaming at a time; Start while
// not Idle/Error is ignored, so a modal opened twice in quick
// succession cannot spawn two device sessions.
type Session struct {
	camera       Camera
	sched        PollScheduler
	notifier     notify.Notifier
	pollInterval time.Duration
	pollTask     func()
	mode         int

	mu     sync.Mutex
	status Status
}

// NewSession creates an idle session. pollTask runs on every barcode
// poll tick while the session is streaming; mode selects the capture
// device (0 = backend default).
func NewSession(camera Camera, sched PollScheduler, notifier notify.Notifier, pollInterval time.Duration, mode int, pollTask func()) *Session {
	return &Session{
		camera:       camera,
		sched:        sched,
		notifier:     notifier,
		pollInterval: pollInterval,
		pollTask:     pollTask,
		mode:         mode,
	}
}

// Status returns the current session state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Start acquires the camera. Valid only from Idle or Error; any other
// state makes the call a no-op without issuing a second start command.
// The session becomes Streaming only after the first frame of the
// video feed has been read, at which point the feed URL is published
// and barcode polling begins.
func (s *Session) Start() error {
	s.mu.Lock()
	if s.status != StatusIdle && s.status != StatusError {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusStarting
	s.mu.Unlock()

	if err := s.camera.StartCamera(s.mode); err != nil {
		log.Printf("Camera start command failed: %v", err)
		s.fail()
		return err
	}

	if err := s.camera.ProbeVideoFeed(); err != nil {
		log.Printf("Video feed did not come up: %v", err)
		s.fail()
		return err
	}

	// Stop may have run while the probe was in flight and already
	// released the camera. The start continuation must not resurrect
	// the session it lost to.
	s.mu.Lock()
	if s.status != StatusStarting {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusStreaming
	s.mu.Unlock()

	s.notifier.Emit(notify.EventCameraFeed, s.camera.VideoFeedURL())
	s.sched.Start(scheduler.TimerBarcode, s.pollInterval, scheduler.Task(s.pollTask))
	return nil
}

// fail records a device failure and clears the capture surface. Device
// lifecycle failures are not toasted; the UI just reverts to hidden. A
// session no longer Starting has been taken over by Stop and is left
// alone.
func (s *Session) fail() {
	s.mu.Lock()
	if s.status != StatusStarting {
		s.mu.Unlock()
		return
	}
	s.status = StatusError
	s.mu.Unlock()
	s.notifier.Emit(notify.EventCameraFeed, "")
}

// Stop releases the camera. Valid from any non-Idle state. The barcode
// poll timer is stopped before the stop command is issued so a poll
// can never query a device that is mid-teardown. The session always
// ends Idle, even when the stop command fails: stop is best effort and
// the UI must not stay stuck on a stale stream.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.status == StatusIdle {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusStopping
	s.mu.Unlock()

	s.sched.Stop(scheduler.TimerBarcode)

	if err := s.camera.StopCamera(); err != nil {
		log.Printf("Camera stop command failed: %v", err)
	}

	s.notifier.Emit(notify.EventCameraFeed, "")

	s.mu.Lock()
	s.status = StatusIdle
	s.mu.Unlock()
	return nil
}
