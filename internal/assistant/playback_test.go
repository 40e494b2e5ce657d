package assistant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// One second of playback PCM: 24000 Hz, mono, 2 bytes per sample.
const oneSecondBytes = 48000

func TestPlaybackClock_Schedule_FramesAreContiguous(t *testing.T) {
	clock := &playbackClock{}

	startA, durA := clock.Schedule(oneSecondBytes)
	startB, durB := clock.Schedule(oneSecondBytes / 2)
	startC, _ := clock.Schedule(oneSecondBytes / 4)

	assert.Equal(t, time.Duration(0), startA)
	assert.Equal(t, time.Second, durA)
	assert.Equal(t, startA+durA, startB)
	assert.Equal(t, 500*time.Millisecond, durB)
	assert.Equal(t, startB+durB, startC)
}

func TestPlaybackClock_Reset(t *testing.T) {
	clock := &playbackClock{}
	clock.Schedule(oneSecondBytes)
	assert.Equal(t, time.Second, clock.Position())

	clock.Reset()
	assert.Equal(t, time.Duration(0), clock.Position())

	start, _ := clock.Schedule(oneSecondBytes)
	assert.Equal(t, time.Duration(0), start)
}

func TestPcmDuration(t *testing.T) {
	tests := map[string]struct {
		bytes    int
		expected time.Duration
	}{
		"one-second":  {bytes: oneSecondBytes, expected: time.Second},
		"half-second": {bytes: oneSecondBytes / 2, expected: 500 * time.Millisecond},
		"empty-frame": {bytes: 0, expected: 0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, pcmDuration(tt.bytes))
		})
	}
}
