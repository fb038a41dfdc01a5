package vcdinfo

import (
	"errors"
	"fmt"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
)

// ErrNoDescriptor is returned when a LID has no descriptor.
var ErrNoDescriptor = errors.New("no descriptor for LID")

// Catalog is the read-only view of a disc the player navigates. Lookups
// outside the valid range return cdio.NullLSN or zero.
type Catalog interface {
	TrackCount() uint32
	EntryCount() uint32
	SegmentCount() uint32
	LIDCount() uint32

	// Tracks are numbered from 1, entries and segments from 0.
	TrackStart(track uint32) uint32
	TrackSectors(track uint32) uint32
	EntryStart(entry uint32) uint32
	EntrySectors(entry uint32) uint32
	EntryTrack(entry uint32) uint32
	SegmentStart(segment uint32) uint32
	SegmentSectors(segment uint32) uint32
	SegmentVideo(segment uint32) VideoKind

	Descriptor(lid LID) (Descriptor, error)
}

// Info holds the disc-level identification fields.
type Info struct {
	Format      string `yaml:"format"`
	Album       string `yaml:"album"`
	VolumeCount uint16 `yaml:"volume_count"`
	VolumeNum   uint16 `yaml:"volume_num"`
	Volume      string `yaml:"volume,omitempty"`
	VolumeSet   string `yaml:"volume_set,omitempty"`
	Publisher   string `yaml:"publisher,omitempty"`
	Preparer    string `yaml:"preparer,omitempty"`
	Application string `yaml:"application,omitempty"`
	System      string `yaml:"system,omitempty"`
}

// ApplyISO fills identification fields the catalog left empty from the
// primary volume descriptor of the image.
func (i *Info) ApplyISO(pvd *cdio.ISODescriptor) {
	fill := func(dst *string, src string) {
		if *dst == "" {
			*dst = src
		}
	}
	fill(&i.Volume, pvd.VolumeID)
	fill(&i.VolumeSet, pvd.VolumeSetIdentifier)
	fill(&i.Publisher, pvd.PublisherIdentifier)
	fill(&i.Preparer, pvd.DataPreparerIdentifier)
	fill(&i.Application, pvd.ApplicationIdentifier)
	fill(&i.System, pvd.SystemID)
	if i.VolumeCount == 0 {
		i.VolumeCount = pvd.VolumeSetSize
	}
	if i.VolumeNum == 0 {
		i.VolumeNum = pvd.VolumeSequenceNum
	}
}

// Extent is a run of sectors.
type Extent struct {
	Start   uint32 `yaml:"start"`
	Sectors uint32 `yaml:"sectors"`
}

// EntryPoint marks a position inside a track.
type EntryPoint struct {
	Track uint32 `yaml:"track"`
	Start uint32 `yaml:"start"`
}

// SegmentItem is a menu still or short motion clip.
type SegmentItem struct {
	Extent `yaml:",inline"`
	Video  VideoKind `yaml:"video"`
}

// Disc is an in-memory Catalog.
type Disc struct {
	Info     Info
	Tracks   []Extent
	Entries  []EntryPoint
	Segments []SegmentItem
	LIDs     []Descriptor // LIDs[0] is LID 1
}

func (d *Disc) TrackCount() uint32   { return uint32(len(d.Tracks)) }
func (d *Disc) EntryCount() uint32   { return uint32(len(d.Entries)) }
func (d *Disc) SegmentCount() uint32 { return uint32(len(d.Segments)) }
func (d *Disc) LIDCount() uint32     { return uint32(len(d.LIDs)) }

func (d *Disc) TrackStart(track uint32) uint32 {
	if track < 1 || track > d.TrackCount() {
		return cdio.NullLSN
	}
	return d.Tracks[track-1].Start
}

func (d *Disc) TrackSectors(track uint32) uint32 {
	if track < 1 || track > d.TrackCount() {
		return 0
	}
	return d.Tracks[track-1].Sectors
}

func (d *Disc) EntryStart(entry uint32) uint32 {
	if entry >= d.EntryCount() {
		return cdio.NullLSN
	}
	return d.Entries[entry].Start
}

// EntrySectors returns the distance to the next entry of the same track,
// or to the end of the track for its last entry.
func (d *Disc) EntrySectors(entry uint32) uint32 {
	if entry >= d.EntryCount() {
		return 0
	}
	e := d.Entries[entry]
	end := d.TrackStart(e.Track) + d.TrackSectors(e.Track)
	if entry+1 < d.EntryCount() && d.Entries[entry+1].Track == e.Track {
		end = d.Entries[entry+1].Start
	}
	if end < e.Start {
		return 0
	}
	return end - e.Start
}

func (d *Disc) EntryTrack(entry uint32) uint32 {
	if entry >= d.EntryCount() {
		return 0
	}
	return d.Entries[entry].Track
}

func (d *Disc) SegmentStart(segment uint32) uint32 {
	if segment >= d.SegmentCount() {
		return cdio.NullLSN
	}
	return d.Segments[segment].Start
}

func (d *Disc) SegmentSectors(segment uint32) uint32 {
	if segment >= d.SegmentCount() {
		return 0
	}
	return d.Segments[segment].Sectors
}

func (d *Disc) SegmentVideo(segment uint32) VideoKind {
	if segment >= d.SegmentCount() {
		return VideoInvalid
	}
	return d.Segments[segment].Video
}

func (d *Disc) Descriptor(lid LID) (Descriptor, error) {
	if lid < 1 || uint32(lid) > d.LIDCount() {
		return nil, fmt.Errorf("%w %d (%d lists)", ErrNoDescriptor, lid, d.LIDCount())
	}
	return d.LIDs[lid-1], nil
}

// TrackEntries returns the first and last entry numbers inside track.
func (d *Disc) TrackEntries(track uint32) (first, last uint32, ok bool) {
	for i, e := range d.Entries {
		if e.Track != track {
			continue
		}
		if !ok {
			first = uint32(i)
			ok = true
		}
		last = uint32(i)
	}
	return first, last, ok
}

// Validate checks that the tables are consistent with each other.
func (d *Disc) Validate() error {
	var errs []error
	for i, e := range d.Entries {
		if e.Track < 1 || e.Track > d.TrackCount() {
			errs = append(errs, fmt.Errorf("entry %d: track %d does not exist", i, e.Track))
			continue
		}
		t := d.Tracks[e.Track-1]
		if e.Start < t.Start || e.Start >= t.Start+t.Sectors {
			errs = append(errs, fmt.Errorf("entry %d: LSN %d outside track %d", i, e.Start, e.Track))
		}
		if i > 0 && d.Entries[i-1].Start >= e.Start {
			errs = append(errs, fmt.Errorf("entry %d: entries must be in ascending order", i))
		}
	}
	for i, desc := range d.LIDs {
		if desc == nil {
			errs = append(errs, fmt.Errorf("LID %d: missing descriptor", i+1))
		}
	}
	return errors.Join(errs...)
}
