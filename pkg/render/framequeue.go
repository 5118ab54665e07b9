package render

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// MaxInflightFrames is how many frames may be encoded ahead of the one being
// presented.
const MaxInflightFrames = 3

// ErrQueueClosed is returned by Next after Close.
var ErrQueueClosed = errors.New("frame queue closed")

type presentation struct {
	fb   *Framebuffer
	show bool
}

// FrameQueue hands out framebuffers from a ring of MaxInflightFrames and
// presents them in order on a background goroutine. A counting semaphore
// blocks the encoder once every framebuffer is waiting to be presented.
type FrameQueue struct {
	surface Surface
	frames  [MaxInflightFrames]*Framebuffer
	next    int

	inflight *semaphore.Weighted
	pending  chan presentation
	done     chan struct{}

	mu        sync.Mutex
	err       error
	closed    bool
	presented int
}

// NewFrameQueue creates a queue of width x height framebuffers presenting
// to surface and starts its presenter.
func NewFrameQueue(surface Surface, width, height int) *FrameQueue {
	q := &FrameQueue{
		surface:  surface,
		inflight: semaphore.NewWeighted(MaxInflightFrames),
		pending:  make(chan presentation, MaxInflightFrames),
		done:     make(chan struct{}),
	}
	for i := range q.frames {
		q.frames[i] = NewFramebuffer(width, height)
	}
	go q.present()
	return q
}

// Size returns the framebuffer dimensions.
func (q *FrameQueue) Size() (width, height int) {
	return q.frames[0].Width, q.frames[0].Height
}

// Next blocks until a framebuffer is free and returns it for encoding.
// Every framebuffer returned must be passed to Present or Discard.
func (q *FrameQueue) Next(ctx context.Context) (*Framebuffer, error) {
	if err := q.inflight.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.inflight.Release(1)
		return nil, ErrQueueClosed
	}
	fb := q.frames[q.next]
	q.next = (q.next + 1) % MaxInflightFrames
	return fb, nil
}

// Present queues fb for display. It never blocks.
func (q *FrameQueue) Present(fb *Framebuffer) {
	q.pending <- presentation{fb: fb, show: true}
}

// Discard returns fb to the ring without displaying it.
func (q *FrameQueue) Discard(fb *Framebuffer) {
	q.pending <- presentation{fb: fb}
}

// Presented returns how many frames reached the surface.
func (q *FrameQueue) Presented() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.presented
}

// Err returns the first error reported by the surface.
func (q *FrameQueue) Err() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err
}

// Close waits for queued frames to be presented and stops the presenter.
// No frame may be outstanding from Next when Close is called.
func (q *FrameQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return q.Err()
	}
	q.closed = true
	q.mu.Unlock()

	close(q.pending)
	<-q.done
	return q.Err()
}

func (q *FrameQueue) present() {
	defer close(q.done)
	for p := range q.pending {
		if p.show {
			q.show(p.fb)
		}
		q.inflight.Release(1)
	}
}

func (q *FrameQueue) show(fb *Framebuffer) {
	if q.Err() != nil {
		return
	}
	fb.Draw(q.surface, q.surface.Bounds())
	err := q.surface.Display()

	q.mu.Lock()
	defer q.mu.Unlock()
	if err != nil {
		if q.err == nil {
			q.err = err
		}
		return
	}
	q.presented++
}
