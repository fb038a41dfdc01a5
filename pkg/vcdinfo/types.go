// Package vcdinfo describes the contents of a Video CD: tracks, entry
// points, menu segments and the playback control (PBC) graph of list IDs.
package vcdinfo

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LID is a list ID, a node of the PBC graph. Valid LIDs start at 1.
type LID uint16

// NoLID marks an absent descriptor offset.
const NoLID LID = 0

// ItemKind identifies what an ItemID numbers.
type ItemKind int

const (
	KindNotFound ItemKind = iota
	KindTrack
	KindEntry
	KindSegment
	KindLID
)

// String returns the label used in titles and listings.
func (k ItemKind) String() string {
	switch k {
	case KindTrack:
		return "Track"
	case KindEntry:
		return "Entry"
	case KindSegment:
		return "Segment"
	case KindLID:
		return "List ID"
	default:
		return "Not found"
	}
}

// Letter returns the one letter MRL code of the kind.
func (k ItemKind) Letter() byte {
	switch k {
	case KindTrack:
		return 'T'
	case KindEntry:
		return 'E'
	case KindSegment:
		return 'S'
	case KindLID:
		return 'P'
	default:
		return '?'
	}
}

func kindFromLetter(c byte) (ItemKind, bool) {
	switch c {
	case 'T', 't':
		return KindTrack, true
	case 'E', 'e':
		return KindEntry, true
	case 'S', 's':
		return KindSegment, true
	case 'P', 'p':
		return KindLID, true
	default:
		return KindNotFound, false
	}
}

// ItemID identifies a playable unit of the disc.
type ItemID struct {
	Kind ItemKind
	Num  uint32
}

// Track, Entry, Segment and List build item IDs.
func Track(n uint32) ItemID   { return ItemID{Kind: KindTrack, Num: n} }
func Entry(n uint32) ItemID   { return ItemID{Kind: KindEntry, Num: n} }
func Segment(n uint32) ItemID { return ItemID{Kind: KindSegment, Num: n} }
func List(lid LID) ItemID     { return ItemID{Kind: KindLID, Num: uint32(lid)} }

// String formats the item the way MRLs spell it, e.g. "E3" or "P1".
func (id ItemID) String() string {
	return string(id.Kind.Letter()) + strconv.FormatUint(uint64(id.Num), 10)
}

// ParseItem parses the MRL spelling of an item ("T1", "e0", "S12", "P1").
func ParseItem(s string) (ItemID, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return ItemID{}, fmt.Errorf("invalid item %q", s)
	}
	kind, ok := kindFromLetter(s[0])
	if !ok {
		return ItemID{}, fmt.Errorf("invalid item kind %q in %q", s[0], s)
	}
	n, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil {
		return ItemID{}, fmt.Errorf("invalid item number in %q: %w", s, err)
	}
	return ItemID{Kind: kind, Num: uint32(n)}, nil
}

// MarshalYAML implements yaml.Marshaler.
func (id ItemID) MarshalYAML() (interface{}, error) {
	return id.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (id *ItemID) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseItem(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*id = parsed
	return nil
}

// VideoKind classifies the video content of a segment.
type VideoKind int

const (
	VideoNone VideoKind = iota
	VideoNTSCStill
	VideoNTSCStill2
	VideoNTSCMotion
	VideoInvalid
	VideoPALStill
	VideoPALStill2
	VideoPALMotion
)

var videoNames = map[VideoKind]string{
	VideoNone:       "none",
	VideoNTSCStill:  "ntsc-still",
	VideoNTSCStill2: "ntsc-still2",
	VideoNTSCMotion: "ntsc-motion",
	VideoInvalid:    "invalid",
	VideoPALStill:   "pal-still",
	VideoPALStill2:  "pal-still2",
	VideoPALMotion:  "pal-motion",
}

// IsStill reports whether segments of this kind hold a single picture.
func (v VideoKind) IsStill() bool {
	switch v {
	case VideoNTSCStill, VideoNTSCStill2, VideoPALStill, VideoPALStill2:
		return true
	default:
		return false
	}
}

// Description returns a human readable name, e.g. "PAL still (lo+hires)".
func (v VideoKind) Description() string {
	switch v {
	case VideoNone:
		return "no stream"
	case VideoNTSCStill:
		return "NTSC still"
	case VideoNTSCStill2:
		return "NTSC still (lo+hires)"
	case VideoNTSCMotion:
		return "NTSC motion"
	case VideoPALStill:
		return "PAL still"
	case VideoPALStill2:
		return "PAL still (lo+hires)"
	case VideoPALMotion:
		return "PAL motion"
	default:
		return "INVALID"
	}
}

// String returns the catalog spelling of the kind.
func (v VideoKind) String() string {
	if name, ok := videoNames[v]; ok {
		return name
	}
	return "invalid"
}

// MarshalYAML implements yaml.Marshaler.
func (v VideoKind) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *VideoKind) UnmarshalYAML(value *yaml.Node) error {
	for kind, name := range videoNames {
		if strings.EqualFold(name, value.Value) {
			*v = kind
			return nil
		}
	}
	return fmt.Errorf("line %d: unknown video kind %q", value.Line, value.Value)
}
