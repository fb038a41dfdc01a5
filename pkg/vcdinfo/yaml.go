package vcdinfo

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hansbonini/vcdplayer/pkg/common"
)

// Descriptor type names used in catalog files
const (
	lidTypeEnd          = "end"
	lidTypePlayList     = "playlist"
	lidTypeSelection    = "selection"
	lidTypeExtSelection = "ext-selection"
	lidTypeCommand      = "command"
)

// discFile is the on-disk layout of a catalog.
type discFile struct {
	Info     Info          `yaml:"info"`
	Tracks   []Extent      `yaml:"tracks"`
	Entries  []EntryPoint  `yaml:"entries,omitempty"`
	Segments []SegmentItem `yaml:"segments,omitempty"`
	LIDs     []lidRecord   `yaml:"lids,omitempty"`
}

// lidRecord is the flat YAML form of every descriptor type. Fields that do
// not belong to Type are ignored on load and omitted on save.
type lidRecord struct {
	LID  LID    `yaml:"lid"`
	Type string `yaml:"type"`

	Item       *ItemID  `yaml:"item,omitempty"`
	Items      []ItemID `yaml:"items,omitempty"`
	BSN        uint16   `yaml:"bsn,omitempty"`
	Selections []LID    `yaml:"selections,omitempty"`
	Default    LID      `yaml:"default,omitempty"`
	Loop       uint8    `yaml:"loop,omitempty"`
	JumpTiming bool     `yaml:"jump_timing,omitempty"`
	Timeout    LID      `yaml:"timeout,omitempty"`
	Wait       uint8    `yaml:"wait,omitempty"`
	PlayTime   uint16   `yaml:"play_time,omitempty"`
	AutoWait   uint8    `yaml:"auto_wait,omitempty"`
	NextDisc   uint8    `yaml:"next_disc,omitempty"`
	Commands   []uint16 `yaml:"commands,omitempty"`
	Next       LID      `yaml:"next,omitempty"`
	Prev       LID      `yaml:"prev,omitempty"`
	Return     LID      `yaml:"return,omitempty"`
}

// LoadDisc reads a YAML catalog file.
func LoadDisc(path string) (*Disc, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToLoadCatalog, err)
	}
	defer fd.Close()

	disc, err := ReadDisc(fd)
	if err != nil {
		return nil, err
	}
	common.LogDebug(common.InfoCatalogLoaded, disc.TrackCount(), disc.EntryCount(),
		disc.SegmentCount(), disc.LIDCount())
	return disc, nil
}

// ReadDisc decodes a YAML catalog. Unknown fields are rejected.
func ReadDisc(r io.Reader) (*Disc, error) {
	d := yaml.NewDecoder(r)
	d.KnownFields(true)

	var file discFile
	if err := d.Decode(&file); err != nil {
		return nil, common.FormatError(common.ErrFailedToParseCatalog, err)
	}

	disc, err := file.build()
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToParseCatalog, err)
	}
	return disc, nil
}

// WriteYAML encodes the disc in catalog file form.
func (d *Disc) WriteYAML(w io.Writer) error {
	file := discFile{
		Info:     d.Info,
		Tracks:   d.Tracks,
		Entries:  d.Entries,
		Segments: d.Segments,
	}
	for i, desc := range d.LIDs {
		file.LIDs = append(file.LIDs, toRecord(LID(i+1), desc))
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(file); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

func (f *discFile) build() (*Disc, error) {
	disc := &Disc{
		Info:     f.Info,
		Tracks:   f.Tracks,
		Entries:  f.Entries,
		Segments: f.Segments,
		LIDs:     make([]Descriptor, len(f.LIDs)),
	}

	for i, rec := range f.LIDs {
		if rec.LID < 1 || int(rec.LID) > len(f.LIDs) {
			return nil, fmt.Errorf("LID %d out of range 1..%d", rec.LID, len(f.LIDs))
		}
		if disc.LIDs[rec.LID-1] != nil {
			return nil, fmt.Errorf("LID %d defined twice", rec.LID)
		}
		desc, err := rec.descriptor()
		if err != nil {
			return nil, fmt.Errorf("lids[%d]: %w", i, err)
		}
		disc.LIDs[rec.LID-1] = desc
		common.LogDebug(common.DebugCatalogLIDParsed, rec.LID, desc.Kind())
	}

	if err := disc.Validate(); err != nil {
		return nil, err
	}
	return disc, nil
}

func (rec *lidRecord) descriptor() (Descriptor, error) {
	switch rec.Type {
	case lidTypeEnd:
		end := &EndList{NextDisc: rec.NextDisc}
		if rec.Item != nil {
			end.StillItem = *rec.Item
		}
		return end, nil
	case lidTypePlayList:
		return &PlayList{
			Items:    rec.Items,
			Next:     rec.Next,
			Prev:     rec.Prev,
			Return:   rec.Return,
			PlayTime: rec.PlayTime,
			WaitTime: rec.Wait,
			AutoWait: rec.AutoWait,
		}, nil
	case lidTypeSelection, lidTypeExtSelection:
		if rec.Item == nil {
			return nil, fmt.Errorf("LID %d: selection list without item", rec.LID)
		}
		if rec.Loop > 0x7f {
			return nil, fmt.Errorf("LID %d: loop count %d exceeds 127", rec.LID, rec.Loop)
		}
		return &SelectionList{
			Extended:    rec.Type == lidTypeExtSelection,
			Item:        *rec.Item,
			BSN:         rec.BSN,
			Selections:  rec.Selections,
			Default:     rec.Default,
			LoopCount:   rec.Loop,
			JumpTiming:  rec.JumpTiming,
			TimeoutLID:  rec.Timeout,
			TimeoutTime: rec.Wait,
			Next:        rec.Next,
			Prev:        rec.Prev,
			Return:      rec.Return,
		}, nil
	case lidTypeCommand:
		return &CommandList{Commands: rec.Commands}, nil
	default:
		return nil, fmt.Errorf("LID %d: unknown descriptor type %q", rec.LID, rec.Type)
	}
}

func toRecord(lid LID, desc Descriptor) lidRecord {
	rec := lidRecord{LID: lid}
	switch d := desc.(type) {
	case *EndList:
		rec.Type = lidTypeEnd
		rec.NextDisc = d.NextDisc
		if d.StillItem.Kind != KindNotFound {
			item := d.StillItem
			rec.Item = &item
		}
	case *PlayList:
		rec.Type = lidTypePlayList
		rec.Items = d.Items
		rec.Next, rec.Prev, rec.Return = d.Next, d.Prev, d.Return
		rec.PlayTime = d.PlayTime
		rec.Wait = d.WaitTime
		rec.AutoWait = d.AutoWait
	case *SelectionList:
		rec.Type = lidTypeSelection
		if d.Extended {
			rec.Type = lidTypeExtSelection
		}
		item := d.Item
		rec.Item = &item
		rec.BSN = d.BSN
		rec.Selections = d.Selections
		rec.Default = d.Default
		rec.Loop = d.LoopCount
		rec.JumpTiming = d.JumpTiming
		rec.Timeout = d.TimeoutLID
		rec.Wait = d.TimeoutTime
		rec.Next, rec.Prev, rec.Return = d.Next, d.Prev, d.Return
	case *CommandList:
		rec.Type = lidTypeCommand
		rec.Commands = d.Commands
	}
	return rec
}
