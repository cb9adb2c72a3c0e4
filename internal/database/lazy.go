package database

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("database pool is closed")

// ConnectFunc opens a ready-to-use pool.
type ConnectFunc func(ctx context.Context) (Pool, error)

// State is the lifecycle position of a Lazy pool.
type State int

const (
	Uninitialized State = iota
	Connecting
	Ready
	Closed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Connecting:
		return "connecting"
	case Ready:
		return "ready"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Lazy holds a process-scoped pool that is created on first use.
//
// Callers that arrive while a connect attempt is in flight wait for that
// same attempt. A successful pool is kept until Close. A failed attempt
// is not remembered: every waiter sees its error and the next Acquire
// starts a fresh attempt.
type Lazy struct {
	connect ConnectFunc
	group   singleflight.Group

	mu    sync.Mutex
	pool  Pool
	state State
}

// NewLazy returns a Lazy that will call connect on first Acquire.
func NewLazy(connect ConnectFunc) *Lazy {
	return &Lazy{connect: connect}
}

// State reports where the pool is in its lifecycle.
func (l *Lazy) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Acquire returns the Ready pool, creating it if needed.
//
// The connect attempt runs detached from ctx so that one caller giving up
// does not fail the attempt for everyone else; ctx only bounds how long
// this caller waits for it.
func (l *Lazy) Acquire(ctx context.Context) (DBTX, error) {
	if pool, err := l.ready(); pool != nil || err != nil {
		return pool, err
	}

	ch := l.group.DoChan("pool", func() (any, error) {
		// A previous flight may have finished between ready() and DoChan.
		if pool, err := l.ready(); pool != nil || err != nil {
			return pool, err
		}

		l.setState(Connecting)
		pool, err := l.connect(context.WithoutCancel(ctx))

		l.mu.Lock()
		defer l.mu.Unlock()

		if err != nil {
			if l.state == Connecting {
				l.state = Uninitialized
			}
			return nil, err
		}
		if l.state == Closed {
			pool.Close()
			return nil, ErrClosed
		}
		l.pool = pool
		l.state = Ready
		return pool, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Pool), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases the pool if one was created. Later Acquire calls fail
// with ErrClosed.
func (l *Lazy) Close() {
	l.mu.Lock()
	pool := l.pool
	l.pool = nil
	l.state = Closed
	l.mu.Unlock()

	if pool != nil {
		pool.Close()
	}
}

func (l *Lazy) ready() (Pool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case Ready:
		return l.pool, nil
	case Closed:
		return nil, ErrClosed
	default:
		return nil, nil
	}
}

func (l *Lazy) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Closed {
		l.state = s
	}
}
