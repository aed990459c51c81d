package core

import "sync"

const AVG_COUNT uint8 = 30

// Metrics keeps the frame time average over the last AVG_COUNT frames and
// the frames counted during the last full second.
type Metrics struct {
	mu sync.RWMutex

	frameAVGCounter    uint8
	msTimes            [AVG_COUNT]float64
	msAvg              float64
	frames             int32
	accumulatedFrameMS float64
	fps                float64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Update records one frame that took frameElapsedTime seconds.
func (m *Metrics) Update(frameElapsedTime float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Calculate frame ms average
	frameMS := frameElapsedTime * 1000.0
	m.msTimes[m.frameAVGCounter] = frameMS
	if m.frameAVGCounter == AVG_COUNT-1 {
		sum := 0.0
		for i := uint8(0); i < AVG_COUNT; i++ {
			sum += m.msTimes[i]
		}
		m.msAvg = sum / float64(AVG_COUNT)
	}
	m.frameAVGCounter++
	m.frameAVGCounter %= AVG_COUNT

	// Count all frames.
	m.frames++

	// Calculate frames per second.
	m.accumulatedFrameMS += frameMS
	if m.accumulatedFrameMS >= 1000 {
		m.fps = float64(m.frames)
		m.accumulatedFrameMS -= 1000
		m.frames = 0
	}
}

func (m *Metrics) FPS() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fps
}

// FrameTime returns the average frame time in milliseconds.
func (m *Metrics) FrameTime() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.msAvg
}

func (m *Metrics) Frame() (float64, float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fps, m.msAvg
}
