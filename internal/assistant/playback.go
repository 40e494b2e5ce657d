package assistant

import (
	"sync"
	"time"

	"github.com/mirahq/academy-crm/internal/domain"
)

// playbackClock schedules assistant audio frames on a virtual timeline so the
// client can play them gapless and in order. Frame B always starts where frame
// A ended; an interrupt rewinds the timeline to zero.
type playbackClock struct {
	mu   sync.Mutex
	next time.Duration
}

// Schedule reserves a slot for a PCM frame of n bytes and returns its start
// offset on the timeline.
func (c *playbackClock) Schedule(n int) (start, duration time.Duration) {
	duration = pcmDuration(n)
	c.mu.Lock()
	start = c.next
	c.next += duration
	c.mu.Unlock()
	return start, duration
}

// Reset rewinds the timeline to zero, discarding every reserved slot.
func (c *playbackClock) Reset() {
	c.mu.Lock()
	c.next = 0
	c.mu.Unlock()
}

// Position returns the end of the last scheduled frame.
func (c *playbackClock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.next
}

// pcmDuration converts a playback PCM byte count to wall time.
func pcmDuration(n int) time.Duration {
	bytesPerSecond := domain.LiveOutputSampleRate * domain.LiveAudioChannels * domain.LiveBytesPerSample
	return time.Duration(n) * time.Second / time.Duration(bytesPerSecond)
}
