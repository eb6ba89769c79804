package core

import (
	"errors"
	"sync"
)

var ErrPipeClosed = errors.New("pipe closed")

// Pipe is an unbounded FIFO. Send never waits for the reader; values are
// handed to Out in the order they were sent.
type Pipe[T any] struct {
	mu        sync.Mutex
	items     []T
	closed    bool
	discarded bool

	signal chan struct{}
	done   chan struct{}
	out    chan T
	once   sync.Once
}

func NewPipe[T any]() *Pipe[T] {
	p := &Pipe[T]{
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		out:    make(chan T),
	}
	go p.pump()
	return p
}

// Send enqueues v. It fails with ErrPipeClosed once Close or Discard was called.
func (p *Pipe[T]) Send(v T) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPipeClosed
	}
	p.items = append(p.items, v)
	p.mu.Unlock()

	p.notify()
	return nil
}

// Out is closed after Close once every pending value was delivered, or
// right away after Discard.
func (p *Pipe[T]) Out() <-chan T {
	return p.out
}

// Len reports values sent but not yet handed to a reader.
func (p *Pipe[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

// Close stops accepting values; pending ones are still delivered.
func (p *Pipe[T]) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.notify()
}

// Discard stops accepting values and drops pending ones. It returns the
// number of values dropped.
func (p *Pipe[T]) Discard() int {
	p.mu.Lock()
	dropped := len(p.items)
	p.items = nil
	p.closed = true
	p.discarded = true
	p.mu.Unlock()

	p.once.Do(func() { close(p.done) })
	return dropped
}

func (p *Pipe[T]) notify() {
	select {
	case p.signal <- struct{}{}:
	default:
	}
}

func (p *Pipe[T]) next() (T, bool) {
	var zero T
	for {
		p.mu.Lock()
		if p.discarded {
			p.mu.Unlock()
			return zero, false
		}
		if len(p.items) > 0 {
			v := p.items[0]
			p.items[0] = zero
			p.items = p.items[1:]
			p.mu.Unlock()
			return v, true
		}
		if p.closed {
			p.mu.Unlock()
			return zero, false
		}
		p.mu.Unlock()

		select {
		case <-p.signal:
		case <-p.done:
		}
	}
}

func (p *Pipe[T]) pump() {
	defer close(p.out)

	for {
		v, ok := p.next()
		if !ok {
			return
		}

		select {
		case p.out <- v:
		case <-p.done:
			return
		}
	}
}
