package vcdplayer

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// Position is a snapshot of where playback is.
type Position struct {
	LSN      uint32 // next sector to read
	Origin   uint32 // first sector of the item
	End      uint32 // first sector past the item
	Track    uint32 // 0 for segments
	TrackLSN uint32
	TrackEnd uint32
	Item     vcdinfo.ItemID
	Entry    int         // entry point covering LSN, -1 if none
	LID      vcdinfo.LID // vcdinfo.NoLID when PBC is off
	Playing  bool
}

// Offset returns the byte offset of LSN inside the item payload.
func (p Position) Offset() int64 {
	return int64(p.LSN-p.Origin) * cdio.M2F2_SECTOR_SIZE
}

// tracker owns the playback position. setOrigin is the only way to move to
// a new item; advance and seek move inside it.
type tracker struct {
	cat      vcdinfo.Catalog
	pos      Position
	log      *log.Entry
	onChange func(Position)
}

func newTracker(cat vcdinfo.Catalog, logger *log.Entry, onChange func(Position)) *tracker {
	return &tracker{
		cat:      cat,
		pos:      Position{Entry: -1},
		log:      logger,
		onChange: onChange,
	}
}

func (t *tracker) setOrigin(lsn, track uint32, item vcdinfo.ItemID) error {
	if lsn == cdio.NullLSN {
		return fmt.Errorf("%w: no start sector for %s", ErrInvalidLsn, item)
	}

	pos := Position{
		LSN:     lsn,
		Origin:  lsn,
		End:     lsn + itemSectors(t.cat, item),
		Track:   track,
		Item:    item,
		Playing: true,
	}
	if start := t.cat.TrackStart(track); start != cdio.NullLSN {
		pos.TrackLSN = start
		pos.TrackEnd = start + t.cat.TrackSectors(track)
	}
	pos.Entry = entryAt(t.cat, track, lsn)
	t.pos = pos

	t.log.Debugf(common.DebugSetOrigin, pos.Origin, pos.LSN, pos.End, pos.Track)
	t.changed()
	return nil
}

// advance moves past the current sector and keeps the entry index in step
// with the sectors read.
func (t *tracker) advance() {
	t.pos.LSN++
	if t.pos.Entry < 0 || t.pos.LSN >= t.pos.End {
		return
	}
	next := uint32(t.pos.Entry) + 1
	if next < t.cat.EntryCount() && t.cat.EntryTrack(next) == t.pos.Track &&
		t.pos.LSN >= t.cat.EntryStart(next) {
		t.pos.Entry++
		t.log.Debugf(common.DebugNewEntry, t.pos.Entry, t.pos.LSN)
		t.changed()
	}
}

func (t *tracker) seek(offset int64) error {
	if !t.pos.Playing {
		return ErrNotPlaying
	}
	if offset < 0 {
		return fmt.Errorf("%w: negative offset %d", ErrSeekOutOfRange, offset)
	}
	sectors := offset / cdio.M2F2_SECTOR_SIZE
	if sectors > int64(t.pos.End-t.pos.Origin) {
		return fmt.Errorf("%w: offset %d past %d sectors", ErrSeekOutOfRange, offset, t.pos.End-t.pos.Origin)
	}

	t.pos.LSN = t.pos.Origin + uint32(sectors)
	t.pos.Entry = entryAt(t.cat, t.pos.Track, t.pos.LSN)
	t.log.Debugf(common.DebugSeek, offset, t.pos.Origin, t.pos.LSN, t.pos.Entry)
	t.changed()
	return nil
}

func (t *tracker) atEnd() bool {
	return t.pos.LSN >= t.pos.End
}

func (t *tracker) stop() {
	t.pos.Playing = false
}

// park leaves no item under the cursor but keeps playing, so the next read
// goes straight to end-of-item navigation.
func (t *tracker) park() {
	lsn := t.pos.LSN
	t.pos = Position{LSN: lsn, Origin: lsn, End: lsn, Entry: -1, Playing: true}
	t.changed()
}

// restore puts back a position saved before a failed navigation.
func (t *tracker) restore(pos Position) {
	t.pos = pos
	t.changed()
}

func (t *tracker) changed() {
	if t.onChange != nil {
		t.onChange(t.pos)
	}
}

// itemSectors returns the catalog size of a playable item.
func itemSectors(cat vcdinfo.Catalog, item vcdinfo.ItemID) uint32 {
	switch item.Kind {
	case vcdinfo.KindTrack:
		return cat.TrackSectors(item.Num)
	case vcdinfo.KindEntry:
		return cat.EntrySectors(item.Num)
	case vcdinfo.KindSegment:
		return cat.SegmentSectors(item.Num)
	default:
		return 0
	}
}

// entryAt returns the last entry of track starting at or before lsn.
func entryAt(cat vcdinfo.Catalog, track, lsn uint32) int {
	entry := -1
	if track == 0 {
		return entry
	}
	for e := uint32(0); e < cat.EntryCount(); e++ {
		if cat.EntryTrack(e) == track && cat.EntryStart(e) <= lsn {
			entry = int(e)
		}
	}
	return entry
}
