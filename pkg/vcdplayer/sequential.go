package vcdplayer

import (
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// Sequential navigation steps through tracks, entries and segments by
// number when PBC is off.

// minItem is the lowest number prev and return step to. Segments share the
// bound of tracks even though they are numbered from 0.
func minItem(kind vcdinfo.ItemKind) uint32 {
	if kind == vcdinfo.KindEntry {
		return 0
	}
	return 1
}

// maxItem is the highest valid number of kind.
func maxItem(cat vcdinfo.Catalog, kind vcdinfo.ItemKind) (uint32, bool) {
	var count uint32
	switch kind {
	case vcdinfo.KindTrack:
		return cat.TrackCount(), cat.TrackCount() > 0
	case vcdinfo.KindEntry:
		count = cat.EntryCount()
	case vcdinfo.KindSegment:
		count = cat.SegmentCount()
	default:
		return 0, false
	}
	if count == 0 {
		return 0, false
	}
	return count - 1, true
}

func sequentialKind(kind vcdinfo.ItemKind) bool {
	switch kind {
	case vcdinfo.KindTrack, vcdinfo.KindEntry, vcdinfo.KindSegment:
		return true
	default:
		return false
	}
}

func seqNext(cat vcdinfo.Catalog, item vcdinfo.ItemID) (vcdinfo.ItemID, bool) {
	last, ok := maxItem(cat, item.Kind)
	if !ok || item.Num+1 > last {
		return item, false
	}
	return vcdinfo.ItemID{Kind: item.Kind, Num: item.Num + 1}, true
}

func seqPrev(item vcdinfo.ItemID) (vcdinfo.ItemID, bool) {
	if !sequentialKind(item.Kind) || item.Num <= minItem(item.Kind) {
		return item, false
	}
	return vcdinfo.ItemID{Kind: item.Kind, Num: item.Num - 1}, true
}

// seqReturn goes back to the first item of the same kind.
func seqReturn(item vcdinfo.ItemID) (vcdinfo.ItemID, bool) {
	if !sequentialKind(item.Kind) {
		return item, false
	}
	return vcdinfo.ItemID{Kind: item.Kind, Num: minItem(item.Kind)}, true
}

func seqDefault(item vcdinfo.ItemID) (vcdinfo.ItemID, bool) {
	return item, sequentialKind(item.Kind)
}

// sequentialEnd decides what follows an item when PBC is off.
func (s *Session) sequentialEnd() step {
	item := s.tr.pos.Item
	switch item.Kind {
	case vcdinfo.KindTrack, vcdinfo.KindEntry:
		next, ok := seqNext(s.cat, item)
		if !ok {
			return s.end()
		}
		if err := s.playSingleItem(next); err != nil {
			s.tr.stop()
			return step{status: StatusError, err: err}
		}
		return step{status: StatusBlock}
	case vcdinfo.KindSegment:
		if s.cat.SegmentVideo(item.Num).IsStill() {
			return step{status: StatusStillFrame, wait: vcdinfo.WaitForever}
		}
		return s.end()
	default:
		return s.end()
	}
}
