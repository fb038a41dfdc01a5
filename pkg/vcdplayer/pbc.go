package vcdplayer

import (
	"context"
	"fmt"
	"time"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// pbcState is the navigation state of the current list. PBC is on while
// lid is set.
type pbcState struct {
	lid  vcdinfo.LID
	desc vcdinfo.Descriptor

	listIndex int  // play list position, -1 before the first item
	waited    bool // play list wait time already served

	loopItem vcdinfo.ItemID
	loop     int

	inStill     bool // current item is a still picture
	waitPending bool // selection timeout not yet served
}

// step is the outcome of one navigation decision. A non-zero jump asks
// follow to enter that LID next.
type step struct {
	status Status
	wait   uint8
	jump   vcdinfo.LID
	err    error
}

func (s *Session) pbcOn() bool {
	return s.pbc.lid != vcdinfo.NoLID
}

func (s *Session) validLID(lid vcdinfo.LID) bool {
	return lid >= 1 && uint32(lid) <= s.cat.LIDCount()
}

// follow enters LIDs one hop at a time until a step settles.
func (s *Session) follow(st step) step {
	from := st.jump
	for hops := 0; st.jump != vcdinfo.NoLID; hops++ {
		if hops >= s.opts.MaxHops {
			s.log.Warnf(common.WarnHopLimit, s.opts.MaxHops, from)
			s.tr.stop()
			return step{
				status: StatusError,
				err:    fmt.Errorf("%w: more than %d hops from LID %d", ErrMalformedGraph, s.opts.MaxHops, from),
			}
		}
		st = s.enterLID(st.jump)
	}
	return st
}

func (s *Session) enterLID(lid vcdinfo.LID) step {
	desc, err := s.cat.Descriptor(lid)
	if err != nil {
		s.tr.stop()
		return step{status: StatusError, err: fmt.Errorf("%w: %v", ErrMalformedGraph, err)}
	}

	s.pbc = pbcState{lid: lid, desc: desc, listIndex: -1}
	s.log.WithField("lid", lid).Debugf(common.DebugEnterLID, lid, desc.Kind())

	switch d := desc.(type) {
	case *vcdinfo.EndList:
		return s.end()
	case *vcdinfo.PlayList:
		return s.advancePlayList(d)
	case *vcdinfo.SelectionList:
		s.pbc.loopItem = d.Item
		if err := s.playSingleItem(d.Item); err != nil {
			return step{status: StatusError, err: err}
		}
		return step{status: StatusBlock}
	case *vcdinfo.CommandList:
		s.log.Warnf(common.WarnCommandListUnsupported, lid)
		s.tr.stop()
		return step{
			status: StatusError,
			err:    fmt.Errorf("%w: command list at LID %d", ErrUnsupportedDescriptor, lid),
		}
	default:
		s.tr.stop()
		return step{status: StatusError, err: fmt.Errorf("%w: LID %d has unknown type", ErrMalformedGraph, lid)}
	}
}

// pbcEnd decides what follows an item under PBC.
func (s *Session) pbcEnd(ctx context.Context) step {
	pos := s.tr.pos

	// An entry runs on into the next entry of its track.
	if pos.Item.Kind == vcdinfo.KindEntry && pos.LSN < pos.TrackEnd {
		next := pos.Item.Num + 1
		if next < s.cat.EntryCount() && s.cat.EntryTrack(next) == pos.Track {
			s.log.Debugf(common.DebugEntryContinues, next)
			if err := s.playSingleItem(vcdinfo.Entry(next)); err != nil {
				return step{status: StatusError, err: err}
			}
			return step{status: StatusBlock}
		}
	}

	switch d := s.pbc.desc.(type) {
	case *vcdinfo.EndList:
		return s.end()
	case *vcdinfo.PlayList:
		return s.advancePlayList(d)
	case *vcdinfo.SelectionList:
		return s.selectionEnd(ctx, d)
	case *vcdinfo.CommandList:
		return s.end()
	default:
		return s.end()
	}
}

func (s *Session) advancePlayList(d *vcdinfo.PlayList) step {
	if s.pbc.listIndex < len(d.Items) {
		s.pbc.listIndex++
	}
	if s.pbc.listIndex < len(d.Items) {
		item := d.Items[s.pbc.listIndex]
		s.log.Debugf(common.DebugPlayListItem, s.pbc.listIndex+1, len(d.Items), item)
		if err := s.playSingleItem(item); err != nil {
			return step{status: StatusError, err: err}
		}
		return step{status: StatusBlock}
	}

	if !s.pbc.waited && d.WaitTime > 0 {
		s.pbc.waited = true
		if len(d.Items) == 0 {
			s.tr.park()
		}
		s.log.Debugf(common.DebugPlayListWait, d.WaitTime)
		return step{status: StatusStillFrame, wait: d.WaitTime}
	}
	return s.jumpOrEnd(d.Next, "next")
}

func (s *Session) selectionEnd(ctx context.Context, d *vcdinfo.SelectionList) step {
	if s.pbc.waitPending {
		s.pbc.waitPending = false
		s.log.Debugf(common.DebugSelectionWait, d.TimeoutTime)
		return step{status: StatusStillFrame, wait: d.TimeoutTime}
	}

	if d.LoopCount == 0 || s.pbc.loop < int(d.LoopCount) {
		s.pbc.loop++
		if s.pbc.loop == 0x7f {
			s.pbc.loop = 0
		}
		s.log.Debugf(common.DebugLoopReplay, s.pbc.loop, d.LoopCount, s.pbc.loopItem)
		if err := s.playSingleItem(s.pbc.loopItem); err != nil {
			return step{status: StatusError, err: err}
		}
		s.pbc.waitPending = false
		return step{status: StatusBlock}
	}

	if d.TimeoutLID != vcdinfo.NoLID {
		if s.validLID(d.TimeoutLID) {
			s.log.Debugf(common.DebugTimeoutJump, d.TimeoutLID)
			return step{jump: d.TimeoutLID}
		}
		s.log.Warnf(common.WarnMalformedTarget, s.pbc.lid, d.TimeoutLID, "timeout")
	}

	if n := len(d.Selections); n > 0 {
		r := int(d.BSN) + s.rand.Intn(n)
		lid, _ := d.Selection(uint16(r))
		s.log.Debugf(common.DebugRandomSelection, r, lid)
		if s.validLID(lid) {
			return step{jump: lid}
		}
		s.log.Warnf(common.WarnMalformedTarget, s.pbc.lid, lid, "selection")
	}

	if s.pbc.inStill {
		s.log.Warnf(common.WarnSelectionFallback, s.pbc.lid)
		select {
		case <-ctx.Done():
		case <-time.After(s.opts.StillDelay):
		}
		return step{status: StatusStillFrame, wait: d.TimeoutTime}
	}
	return s.end()
}

// jumpOrEnd follows a descriptor offset. An absent offset ends playback.
func (s *Session) jumpOrEnd(target vcdinfo.LID, which string) step {
	if target == vcdinfo.NoLID {
		return s.end()
	}
	if !s.validLID(target) {
		s.log.Warnf(common.WarnMalformedTarget, s.pbc.lid, target, which)
		s.tr.stop()
		return step{status: StatusError, err: fmt.Errorf("%w: %s of LID %d is %d", ErrMalformedGraph, which, s.pbc.lid, target)}
	}
	return step{jump: target}
}

func (s *Session) end() step {
	s.tr.stop()
	return step{status: StatusEnd}
}

// pbcTarget resolves a user navigation request against the current list.
// A zero LID with a nil error means the request was served in place.
func (s *Session) pbcTarget(op NavOp, selection uint16) (vcdinfo.LID, error) {
	var target vcdinfo.LID

	switch d := s.pbc.desc.(type) {
	case *vcdinfo.PlayList:
		switch op {
		case NavNext:
			target = d.Next
		case NavPrev:
			target = d.Prev
		case NavReturn:
			target = d.Return
		case NavDefault:
			if s.pbc.listIndex < 0 || s.pbc.listIndex >= len(d.Items) {
				return vcdinfo.NoLID, fmt.Errorf("%w: %s in LID %d", ErrNoTarget, op, s.pbc.lid)
			}
			return vcdinfo.NoLID, s.playSingleItem(d.Items[s.pbc.listIndex])
		}
	case *vcdinfo.SelectionList:
		switch op {
		case NavNext:
			target = d.Next
		case NavPrev:
			target = d.Prev
		case NavReturn:
			target = d.Return
		case NavDefault:
			target = d.Default
		case NavActivate:
			lid, ok := d.Selection(selection)
			if !ok {
				return vcdinfo.NoLID, fmt.Errorf("%w: selection %d not in %d..%d",
					ErrInvalidItemNumber, selection, d.BSN, int(d.BSN)+len(d.Selections)-1)
			}
			target = lid
		}
	}

	if target == vcdinfo.NoLID {
		return vcdinfo.NoLID, fmt.Errorf("%w: %s in LID %d", ErrNoTarget, op, s.pbc.lid)
	}
	if !s.validLID(target) {
		s.log.Warnf(common.WarnMalformedTarget, s.pbc.lid, target, op)
		return vcdinfo.NoLID, fmt.Errorf("%w: %s of LID %d is %d", ErrMalformedGraph, op, s.pbc.lid, target)
	}
	return target, nil
}
