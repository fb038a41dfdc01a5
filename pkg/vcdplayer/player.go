// Package vcdplayer is the Video CD playback engine. A Session decides,
// sector by sector, what to read next: it follows the PBC graph of list
// IDs when one is active and steps through items by number otherwise.
//
// A Session is not safe for concurrent use. Streamer runs one on its own
// goroutine for callers that need that.
package vcdplayer

import (
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// Defaults for zero Options fields.
const (
	DefaultBlocksPerRead = 20
	DefaultMaxHops       = 64
	DefaultStillDelay    = time.Second
)

// SectorReader reads the subheader and payload of a Mode 2 sector.
// *cdio.Image implements it.
type SectorReader interface {
	ReadMode2Sector(lsn uint32, sec *cdio.Sector) error
}

// Options configure a Session.
type Options struct {
	// PBC selects the list based default item when the disc has lists.
	PBC           bool
	BlocksPerRead int
	// MaxHops bounds the LIDs entered by one navigation decision.
	MaxHops int
	// StillDelay paces a selection list that has nowhere to go.
	StillDelay time.Duration
	Rand       *rand.Rand

	Logger *log.Entry
	// OnItemChange is called whenever the item or the entry changes.
	OnItemChange func(Position)

	// Info and Source feed Title.
	Info   vcdinfo.Info
	Source string
}

func (o *Options) applyDefaults() {
	if o.BlocksPerRead <= 0 {
		o.BlocksPerRead = DefaultBlocksPerRead
	}
	if o.MaxHops <= 0 {
		o.MaxHops = DefaultMaxHops
	}
	if o.StillDelay <= 0 {
		o.StillDelay = DefaultStillDelay
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Logger == nil {
		o.Logger = log.NewEntry(log.StandardLogger())
	}
}

// Session is one open disc.
type Session struct {
	reader SectorReader
	cat    vcdinfo.Catalog
	opts   Options
	log    *log.Entry
	rand   *rand.Rand

	tr  *tracker
	pbc pbcState

	pending *Result
	closed  bool
}

// Open starts a session on a disc. Nothing plays until Play is called. If
// reader accepts a log handler, its messages are routed to the session
// logger.
func Open(reader SectorReader, cat vcdinfo.Catalog, opts Options) *Session {
	opts.applyDefaults()
	s := &Session{
		reader: reader,
		cat:    cat,
		opts:   opts,
		log:    opts.Logger,
		rand:   opts.Rand,
	}
	s.tr = newTracker(cat, s.log, opts.OnItemChange)
	s.pbc.listIndex = -1

	if r, ok := reader.(logRegistrar); ok {
		r.SetLogHandler(sessionLog, s)
	}
	return s
}

// Close detaches the session from its reader.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if r, ok := s.reader.(logRegistrar); ok {
		r.SetLogHandler(nil, nil)
	}
	return nil
}

// DefaultItem is the item playback starts with: the first list when PBC is
// enabled and the disc has lists, the first entry otherwise.
func (s *Session) DefaultItem() vcdinfo.ItemID {
	if s.opts.PBC && s.cat.LIDCount() > 0 {
		return vcdinfo.List(1)
	}
	if s.cat.EntryCount() == 0 && s.cat.TrackCount() > 0 {
		return vcdinfo.Track(1)
	}
	return vcdinfo.Entry(0)
}

// Play starts item. A list ID turns PBC on and follows the graph from it;
// any other item turns PBC off. On error the session is left as it was.
func (s *Session) Play(item vcdinfo.ItemID) error {
	if s.closed {
		return ErrClosed
	}
	s.log.Infof(common.InfoPlaybackStarted, item)

	if item.Kind != vcdinfo.KindLID {
		prev := s.pbc
		s.pbc = pbcState{listIndex: -1}
		if err := s.playSingleItem(item); err != nil {
			s.pbc = prev
			return err
		}
		s.pending = nil
		return nil
	}

	if item.Num < 1 || item.Num > s.cat.LIDCount() {
		return fmt.Errorf("%w: LID %d not in 1..%d", ErrInvalidItemNumber, item.Num, s.cat.LIDCount())
	}
	return s.run(step{jump: vcdinfo.LID(item.Num)})
}

// Seek moves to a byte offset inside the current item.
func (s *Session) Seek(offset int64) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.tr.seek(offset); err != nil {
		return err
	}
	s.pending = nil
	return nil
}

// Position returns the current position.
func (s *Session) Position() Position {
	pos := s.tr.pos
	pos.LID = s.pbc.lid
	return pos
}

// Title expands a title or author format for the current position.
func (s *Session) Title(format string) string {
	pos := s.Position()
	mrl := vcdinfo.MRL{Source: s.opts.Source, Kind: pos.Item.Kind, Num: pos.Item.Num, HasNum: true}
	vars := vcdinfo.FormatVars{
		Item:  pos.Item,
		LID:   pos.LID,
		Track: pos.Track,
		MRL:   mrl.String(),
	}
	if pos.Item.Kind == vcdinfo.KindSegment {
		vars.Segment = s.cat.SegmentVideo(pos.Item.Num)
	}
	return vcdinfo.Format(format, s.opts.Info, vars)
}

// run follows navigation from st and settles the outcome for a caller
// outside the read loop. Still frames and the end of playback are handed
// to the next ReadBlock. On error the previous state is restored.
func (s *Session) run(st step) error {
	prevPBC, prevPos := s.pbc, s.tr.pos

	st = s.follow(st)
	switch st.status {
	case StatusError:
		s.pbc = prevPBC
		s.tr.restore(prevPos)
		return st.err
	case StatusBlock:
		s.pending = nil
	default:
		res := resultOf(st)
		s.pending = &res
	}
	return nil
}

// playSingleItem moves to a track, entry or segment.
func (s *Session) playSingleItem(item vcdinfo.ItemID) error {
	var lsn, track uint32
	still := false

	switch item.Kind {
	case vcdinfo.KindTrack:
		if item.Num < 1 || item.Num > s.cat.TrackCount() {
			return fmt.Errorf("%w: track %d not in 1..%d", ErrInvalidItemNumber, item.Num, s.cat.TrackCount())
		}
		lsn, track = s.cat.TrackStart(item.Num), item.Num
	case vcdinfo.KindEntry:
		if item.Num >= s.cat.EntryCount() {
			return fmt.Errorf("%w: entry %d of %d", ErrInvalidItemNumber, item.Num, s.cat.EntryCount())
		}
		lsn, track = s.cat.EntryStart(item.Num), s.cat.EntryTrack(item.Num)
	case vcdinfo.KindSegment:
		if item.Num >= s.cat.SegmentCount() {
			return fmt.Errorf("%w: segment %d of %d", ErrInvalidItemNumber, item.Num, s.cat.SegmentCount())
		}
		lsn = s.cat.SegmentStart(item.Num)
		still = s.cat.SegmentVideo(item.Num).IsStill()
	default:
		return fmt.Errorf("%w: %s is not a single item", ErrInvalidItemNumber, item)
	}

	if err := s.tr.setOrigin(lsn, track, item); err != nil {
		return err
	}
	s.pbc.inStill = still
	s.pbc.waitPending = still
	return nil
}
