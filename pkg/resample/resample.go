// Package resample converts microphone audio at an arbitrary device rate into
// 24kHz mono 16-bit PCM frames for the transcription socket.
package resample

import (
	"sync/atomic"
)

// TargetRate is the sample rate expected by the transcription service.
const TargetRate = 24000

// Resampler linearly interpolates float32 samples at the input rate down (or
// up) to TargetRate PCM16. It keeps a carry-over buffer so that feeding the
// same stream in arbitrary chunks produces the same output as one call with
// the concatenated stream.
type Resampler struct {
	ratio float64
	buf   []float32
}

func New(inputRate int) *Resampler {
	if inputRate <= 0 {
		inputRate = 48000
	}
	return &Resampler{
		ratio: float64(inputRate) / float64(TargetRate),
	}
}

// Process appends the block to the carry-over buffer and returns as many
// whole output samples as the buffered input allows. Returns nil when less
// than one output sample's worth of input has accumulated. It never blocks
// and allocates only the returned slice.
func (r *Resampler) Process(samples []float32) []int16 {
	r.buf = append(r.buf, samples...)

	outputSamples := int(float64(len(r.buf)) / r.ratio)
	if outputSamples == 0 {
		return nil
	}

	pcm := make([]int16, outputSamples)
	for i := 0; i < outputSamples; i++ {
		src := float64(i) * r.ratio
		lo := int(src)
		hi := lo + 1
		if hi > len(r.buf)-1 {
			hi = len(r.buf) - 1
		}
		frac := src - float64(lo)

		sample := float64(r.buf[lo])*(1-frac) + float64(r.buf[hi])*frac

		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		if sample < 0 {
			pcm[i] = int16(sample * 0x8000)
		} else {
			pcm[i] = int16(sample * 0x7fff)
		}
	}

	consumed := int(float64(outputSamples) * r.ratio)
	n := copy(r.buf, r.buf[consumed:])
	r.buf = r.buf[:n]

	return pcm
}

// Reset discards any carried-over input.
func (r *Resampler) Reset() {
	r.buf = r.buf[:0]
}

// Pump runs a Resampler on the audio callback side and hands finished PCM16
// blocks to a consumer channel. Push never blocks: when the consumer falls
// behind, blocks are dropped and counted. A panic in the callback path is
// swallowed so it cannot take down the audio graph.
type Pump struct {
	r       *Resampler
	out     chan []int16
	closed  atomic.Bool
	dropped atomic.Uint64
}

func NewPump(inputRate, buffer int) *Pump {
	if buffer <= 0 {
		buffer = 32
	}
	return &Pump{
		r:   New(inputRate),
		out: make(chan []int16, buffer),
	}
}

// Push resamples one input block and queues the result. Safe to call from a
// realtime callback context.
func (p *Pump) Push(samples []float32) {
	defer func() {
		_ = recover()
	}()

	if p.closed.Load() {
		return
	}
	pcm := p.r.Process(samples)
	if len(pcm) == 0 {
		return
	}
	select {
	case p.out <- pcm:
	default:
		p.dropped.Add(1)
	}
}

// Frames is the consumer side of the one-way channel.
func (p *Pump) Frames() <-chan []int16 {
	return p.out
}

// Dropped reports how many blocks were discarded because the consumer was
// behind.
func (p *Pump) Dropped() uint64 {
	return p.dropped.Load()
}

// Close stops the pump. Pending frames already queued may still be drained by
// the consumer; the channel is closed so range loops terminate.
func (p *Pump) Close() {
	if p.closed.CompareAndSwap(false, true) {
		close(p.out)
	}
}
