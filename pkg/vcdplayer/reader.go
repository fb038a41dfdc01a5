package vcdplayer

import (
	"context"
	"fmt"
	"time"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// Status is the kind of a ReadBlock result.
type Status int

const (
	// StatusBlock carries sector payload.
	StatusBlock Status = iota
	// StatusStillFrame asks the consumer to hold the last picture for Wait.
	StatusStillFrame
	// StatusEnd means there is nothing more to play.
	StatusEnd
	// StatusError carries Err. Reading may continue with the next call.
	StatusError
)

func (st Status) String() string {
	switch st {
	case StatusBlock:
		return "block"
	case StatusStillFrame:
		return "still frame"
	case StatusEnd:
		return "end"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(st))
	}
}

// Result is the outcome of one ReadBlock call.
type Result struct {
	Status  Status
	Data    []byte // Sectors payloads of 2324 bytes each
	Sectors int
	Wait    uint8 // VCD wait byte for StatusStillFrame
	Err     error
}

// WaitDuration decodes Wait. ok is false for an indefinite hold.
func (r Result) WaitDuration() (time.Duration, bool) {
	return vcdinfo.WaitDuration(r.Wait)
}

// ReadBlock reads up to BlocksPerRead payload sectors of the current item.
// At the end of an item it runs navigation first; a batch never spans two
// items. A sector that fails to read is skipped and reported as
// StatusError, after any sectors already read in the same call have been
// returned.
func (s *Session) ReadBlock(ctx context.Context) Result {
	if s.closed {
		return Result{Status: StatusError, Err: ErrClosed}
	}
	if err := ctx.Err(); err != nil {
		return Result{Status: StatusError, Err: err}
	}
	if s.pending != nil {
		res := *s.pending
		s.pending = nil
		return res
	}
	if !s.tr.pos.Playing {
		return Result{Status: StatusEnd}
	}

	var sec cdio.Sector
	data := make([]byte, 0, s.opts.BlocksPerRead*cdio.M2F2_SECTOR_SIZE)
	n, hops := 0, 0

	for n < s.opts.BlocksPerRead {
		if s.tr.atEnd() {
			if n > 0 {
				break
			}
			if hops >= s.opts.MaxHops {
				s.log.Warnf(common.WarnHopLimit, s.opts.MaxHops, s.pbc.lid)
				s.tr.stop()
				return Result{Status: StatusError, Err: fmt.Errorf("%w: no sectors after %d items", ErrMalformedGraph, hops)}
			}
			hops++

			s.log.Debugf(common.DebugEndOfItem, s.tr.pos.LSN)
			st := s.endOfItem(ctx)
			if st.status != StatusBlock {
				return resultOf(st)
			}
			if !s.tr.pos.Playing {
				return Result{Status: StatusEnd}
			}
			continue
		}

		lsn := s.tr.pos.LSN
		if err := s.reader.ReadMode2Sector(lsn, &sec); err != nil {
			s.tr.advance()
			s.log.Warnf(common.WarnSkippingBadSector, lsn)
			res := Result{Status: StatusError, Err: fmt.Errorf("%w at LSN %d: %v", ErrDiscRead, lsn, err)}
			if n > 0 {
				s.pending = &res
				break
			}
			return res
		}
		s.tr.advance()

		if sec.IsPadding() {
			s.log.Debugf(common.DebugPaddingSector, lsn)
			continue
		}
		data = append(data, sec.Data[:]...)
		n++
	}

	return Result{Status: StatusBlock, Data: data, Sectors: n}
}

func (s *Session) endOfItem(ctx context.Context) step {
	if !s.pbcOn() {
		return s.sequentialEnd()
	}
	return s.follow(s.pbcEnd(ctx))
}

func resultOf(st step) Result {
	return Result{Status: st.status, Wait: st.wait, Err: st.err}
}
