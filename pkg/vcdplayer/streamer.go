package vcdplayer

import (
	"context"
	"time"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

type command struct {
	name  string
	wake  bool // resumes reading after End or a still frame
	fn    func(*Session) error
	reply chan error
}

// Streamer owns a Session on a single goroutine and publishes its read
// results on Blocks. Other goroutines control playback through its
// methods, which are serialized with reading.
type Streamer struct {
	s      *Session
	cmds   chan command
	blocks chan Result
	done   chan struct{}
}

// NewStreamer wraps s. The Streamer takes ownership of the session and
// closes it when Run returns.
func NewStreamer(s *Session) *Streamer {
	return &Streamer{
		s:      s,
		cmds:   make(chan command),
		blocks: make(chan Result, 4),
		done:   make(chan struct{}),
	}
}

// Blocks delivers read results. It is closed when Run returns.
func (st *Streamer) Blocks() <-chan Result {
	return st.blocks
}

// Run reads until ctx is cancelled. After the end of playback it waits
// for a command; after a still frame it waits out the hold time, or for
// a command when the hold is indefinite.
func (st *Streamer) Run(ctx context.Context) error {
	defer close(st.blocks)
	defer close(st.done)
	defer st.s.Close()

	idle := !st.s.Position().Playing
	var (
		holding bool
		wake    <-chan time.Time
	)

	for {
		if idle || holding {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case c := <-st.cmds:
				if st.exec(c) {
					idle, holding, wake = false, false, nil
				}
				continue
			case <-wake:
				holding, wake = false, nil
			}
		}

		select {
		case c := <-st.cmds:
			st.exec(c)
			continue
		default:
		}

		res := st.s.ReadBlock(ctx)
		if err := ctx.Err(); err != nil {
			return err
		}
		woke, err := st.emit(ctx, res)
		if err != nil {
			return err
		}
		if woke {
			idle, holding, wake = false, false, nil
			continue
		}

		switch res.Status {
		case StatusEnd:
			st.s.log.Debugf(common.DebugStreamerIdle, res.Status)
			idle = true
		case StatusStillFrame:
			holding = true
			if d, ok := res.WaitDuration(); ok {
				st.s.log.Infof(common.InfoStillFrame, d)
				wake = time.After(d)
			} else {
				st.s.log.Info(common.InfoStillFrameForever)
				wake = nil
			}
		}
	}
}

// emit publishes res, serving commands while the consumer is behind. A
// command that restarts reading makes res stale: it is dropped and emit
// reports true.
func (st *Streamer) emit(ctx context.Context, res Result) (bool, error) {
	for {
		select {
		case st.blocks <- res:
			return false, nil
		case c := <-st.cmds:
			if st.exec(c) {
				return true, nil
			}
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// exec runs a command and reports whether it should resume reading.
// Results still buffered from before such a command are discarded.
func (st *Streamer) exec(c command) bool {
	st.s.log.Debugf(common.DebugStreamerCommand, c.name)
	err := c.fn(st.s)
	woke := c.wake && err == nil
	if woke {
		st.drain()
	}
	c.reply <- err
	return woke
}

func (st *Streamer) drain() {
	for {
		select {
		case <-st.blocks:
		default:
			return
		}
	}
}

func (st *Streamer) do(ctx context.Context, name string, wake bool, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c := command{name: name, wake: wake, fn: fn, reply: make(chan error, 1)}
	select {
	case st.cmds <- c:
	case <-ctx.Done():
		return ctx.Err()
	case <-st.done:
		return ErrClosed
	}
	select {
	case err := <-c.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Play starts item, see Session.Play.
func (st *Streamer) Play(ctx context.Context, item vcdinfo.ItemID) error {
	return st.do(ctx, "play "+item.String(), true, func(s *Session) error {
		return s.Play(item)
	})
}

// Navigate handles a user request, see Session.Navigate.
func (st *Streamer) Navigate(ctx context.Context, op NavOp, selection uint16) error {
	return st.do(ctx, "navigate "+op.String(), true, func(s *Session) error {
		return s.Navigate(op, selection)
	})
}

// Seek moves inside the current item, see Session.Seek.
func (st *Streamer) Seek(ctx context.Context, offset int64) error {
	return st.do(ctx, "seek", true, func(s *Session) error {
		return s.Seek(offset)
	})
}

// Position returns the position of the session.
func (st *Streamer) Position(ctx context.Context) (Position, error) {
	var pos Position
	err := st.do(ctx, "position", false, func(s *Session) error {
		pos = s.Position()
		return nil
	})
	return pos, err
}

// Title expands format for the current position, see Session.Title.
func (st *Streamer) Title(ctx context.Context, format string) (string, error) {
	var title string
	err := st.do(ctx, "title", false, func(s *Session) error {
		title = s.Title(format)
		return nil
	})
	return title, err
}
