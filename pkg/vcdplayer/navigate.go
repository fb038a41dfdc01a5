package vcdplayer

import (
	"fmt"
	"strings"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// NavOp is a user navigation request.
type NavOp int

const (
	NavNext NavOp = iota
	NavPrev
	NavDefault
	NavReturn
	// NavActivate picks a numbered selection.
	NavActivate
)

func (op NavOp) String() string {
	switch op {
	case NavNext:
		return "next"
	case NavPrev:
		return "prev"
	case NavDefault:
		return "default"
	case NavReturn:
		return "return"
	case NavActivate:
		return "activate"
	default:
		return fmt.Sprintf("nav(%d)", int(op))
	}
}

// ParseNavOp parses the String form of a NavOp.
func ParseNavOp(s string) (NavOp, error) {
	for op := NavNext; op <= NavActivate; op++ {
		if strings.EqualFold(s, op.String()) {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown navigation %q", s)
}

// Navigate handles a user request. With PBC on it follows the offsets of
// the current list; selection is only used by NavActivate. With PBC off
// it steps through items of the current kind, NavActivate playing item
// number selection.
func (s *Session) Navigate(op NavOp, selection uint16) error {
	if s.closed {
		return ErrClosed
	}
	if s.pbcOn() {
		target, err := s.pbcTarget(op, selection)
		if err != nil {
			return err
		}
		if target == vcdinfo.NoLID {
			s.pending = nil
			return nil
		}
		s.log.Debugf(common.DebugNavigation, op, vcdinfo.List(target))
		return s.run(step{jump: target})
	}

	item := s.tr.pos.Item
	var (
		target vcdinfo.ItemID
		ok     bool
	)
	switch op {
	case NavNext:
		target, ok = seqNext(s.cat, item)
	case NavPrev:
		target, ok = seqPrev(item)
	case NavReturn:
		target, ok = seqReturn(item)
	case NavDefault:
		target, ok = seqDefault(item)
		if ok && s.tr.pos.Playing {
			return nil
		}
	case NavActivate:
		target, ok = vcdinfo.ItemID{Kind: item.Kind, Num: uint32(selection)}, sequentialKind(item.Kind)
	}
	if !ok {
		return fmt.Errorf("%w: %s from %s", ErrNoTarget, op, item)
	}
	s.log.Debugf(common.DebugNavigation, op, target)
	return s.Play(target)
}
