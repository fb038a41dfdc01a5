package vcdinfo

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
)

const sampleCatalog = `info:
  format: VCD 2.0
  album: "Holiday  "
  volume_count: 2
  volume_num: 1
  volume: HOLIDAY_1
tracks:
  - {start: 1000, sectors: 300}
  - {start: 1300, sectors: 200}
entries:
  - {track: 1, start: 1000}
  - {track: 1, start: 1100}
  - {track: 2, start: 1300}
segments:
  - {start: 225, sectors: 150, video: pal-still}
  - {start: 375, sectors: 150, video: pal-motion}
lids:
  - lid: 1
    type: selection
    item: S0
    bsn: 1
    selections: [2, 3]
    default: 2
    loop: 3
    timeout: 3
    wait: 10
  - lid: 2
    type: playlist
    items: [E0, E1]
    wait: 5
    next: 3
    return: 1
  - lid: 3
    type: end
`

func TestParseItem(t *testing.T) {
	testCases := []struct {
		input string
		want  ItemID
	}{
		{"T1", Track(1)},
		{"e3", Entry(3)},
		{"S12", Segment(12)},
		{"P1", List(1)},
		{" E0 ", Entry(0)},
	}

	for _, tc := range testCases {
		got, err := ParseItem(tc.input)
		if err != nil {
			t.Errorf("ParseItem(%q) failed: %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseItem(%q) = %v, want %v", tc.input, got, tc.want)
		}
		if got.String() != strings.ToUpper(strings.TrimSpace(tc.input)) {
			t.Errorf("String() = %q, want %q", got.String(), strings.ToUpper(strings.TrimSpace(tc.input)))
		}
	}

	for _, bad := range []string{"", "E", "X3", "E-1", "Tabc"} {
		if _, err := ParseItem(bad); err == nil {
			t.Errorf("ParseItem(%q) should fail", bad)
		}
	}
}

func TestVideoKind_IsStill(t *testing.T) {
	testCases := []struct {
		kind VideoKind
		want bool
	}{
		{VideoNone, false},
		{VideoNTSCStill, true},
		{VideoNTSCStill2, true},
		{VideoNTSCMotion, false},
		{VideoInvalid, false},
		{VideoPALStill, true},
		{VideoPALStill2, true},
		{VideoPALMotion, false},
	}

	for _, tc := range testCases {
		if got := tc.kind.IsStill(); got != tc.want {
			t.Errorf("%v.IsStill() = %v, want %v", tc.kind, got, tc.want)
		}
	}
}

func TestReadDisc(t *testing.T) {
	disc, err := ReadDisc(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ReadDisc() failed: %v", err)
	}

	if disc.TrackCount() != 2 || disc.EntryCount() != 3 || disc.SegmentCount() != 2 || disc.LIDCount() != 3 {
		t.Errorf("counts = %d/%d/%d/%d, want 2/3/2/3",
			disc.TrackCount(), disc.EntryCount(), disc.SegmentCount(), disc.LIDCount())
	}
	if disc.Info.Format != "VCD 2.0" {
		t.Errorf("Info.Format = %q, want %q", disc.Info.Format, "VCD 2.0")
	}
	if disc.SegmentVideo(0) != VideoPALStill {
		t.Errorf("SegmentVideo(0) = %v, want %v", disc.SegmentVideo(0), VideoPALStill)
	}
	if disc.SegmentStart(1) != 375 || disc.SegmentSectors(1) != 150 {
		t.Errorf("segment 1 = %d+%d, want 375+150", disc.SegmentStart(1), disc.SegmentSectors(1))
	}

	desc, err := disc.Descriptor(1)
	if err != nil {
		t.Fatalf("Descriptor(1) failed: %v", err)
	}
	sel, ok := desc.(*SelectionList)
	if !ok {
		t.Fatalf("Descriptor(1) = %T, want *SelectionList", desc)
	}
	if sel.Item != Segment(0) || sel.LoopCount != 3 || sel.TimeoutLID != 3 || sel.TimeoutTime != 10 {
		t.Errorf("selection list = %+v", sel)
	}
	if lid, ok := sel.Selection(2); !ok || lid != 3 {
		t.Errorf("Selection(2) = %d, %v, want 3, true", lid, ok)
	}
	if _, ok := sel.Selection(3); ok {
		t.Error("Selection(3) should be out of range")
	}
	if _, ok := sel.Selection(0); ok {
		t.Error("Selection(0) should be below the base selection number")
	}

	desc, _ = disc.Descriptor(2)
	pl, ok := desc.(*PlayList)
	if !ok {
		t.Fatalf("Descriptor(2) = %T, want *PlayList", desc)
	}
	if len(pl.Items) != 2 || pl.Items[1] != Entry(1) || pl.WaitTime != 5 || pl.Next != 3 {
		t.Errorf("play list = %+v", pl)
	}

	if _, err := disc.Descriptor(4); !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Descriptor(4) error = %v, want ErrNoDescriptor", err)
	}
	if _, err := disc.Descriptor(0); !errors.Is(err, ErrNoDescriptor) {
		t.Errorf("Descriptor(0) error = %v, want ErrNoDescriptor", err)
	}
}

func TestReadDisc_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		catalog string
	}{
		{"unknown field", "tracks: []\nbogus: 1\n"},
		{"unknown lid type", "lids:\n  - {lid: 1, type: jump}\n"},
		{"duplicate lid", "lids:\n  - {lid: 1, type: end}\n  - {lid: 1, type: end}\n"},
		{"lid out of range", "lids:\n  - {lid: 2, type: end}\n"},
		{"selection without item", "lids:\n  - {lid: 1, type: selection}\n"},
		{"bad item", "lids:\n  - {lid: 1, type: playlist, items: [X1]}\n"},
		{"entry without track", "entries:\n  - {track: 3, start: 0}\n"},
		{"entry outside track", "tracks:\n  - {start: 10, sectors: 5}\nentries:\n  - {track: 1, start: 20}\n"},
		{"bad video kind", "segments:\n  - {start: 0, sectors: 1, video: secam}\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadDisc(strings.NewReader(tc.catalog)); err == nil {
				t.Error("ReadDisc() should fail")
			}
		})
	}
}

func TestDisc_EntrySectors(t *testing.T) {
	disc, err := ReadDisc(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ReadDisc() failed: %v", err)
	}

	testCases := []struct {
		entry uint32
		want  uint32
	}{
		{0, 100}, // up to the next entry of track 1
		{1, 200}, // up to the end of track 1
		{2, 200}, // whole of track 2
		{3, 0},
	}
	for _, tc := range testCases {
		if got := disc.EntrySectors(tc.entry); got != tc.want {
			t.Errorf("EntrySectors(%d) = %d, want %d", tc.entry, got, tc.want)
		}
	}

	if disc.EntryStart(3) != cdio.NullLSN {
		t.Errorf("EntryStart(3) = %d, want NullLSN", disc.EntryStart(3))
	}
	if disc.TrackStart(0) != cdio.NullLSN {
		t.Errorf("TrackStart(0) = %d, want NullLSN", disc.TrackStart(0))
	}
	if disc.EntryTrack(2) != 2 {
		t.Errorf("EntryTrack(2) = %d, want 2", disc.EntryTrack(2))
	}

	first, last, ok := disc.TrackEntries(1)
	if !ok || first != 0 || last != 1 {
		t.Errorf("TrackEntries(1) = %d, %d, %v, want 0, 1, true", first, last, ok)
	}
	if _, _, ok := disc.TrackEntries(5); ok {
		t.Error("TrackEntries(5) should find nothing")
	}
}

func TestDisc_WriteYAML(t *testing.T) {
	disc, err := ReadDisc(strings.NewReader(sampleCatalog))
	if err != nil {
		t.Fatalf("ReadDisc() failed: %v", err)
	}

	var buf bytes.Buffer
	if err := disc.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"type: selection", "item: S0", "video: pal-still", "- E1"} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteYAML() output missing %q:\n%s", want, out)
		}
	}

	again, err := ReadDisc(&buf)
	if err != nil {
		t.Fatalf("ReadDisc() of written catalog failed: %v", err)
	}
	if again.LIDCount() != disc.LIDCount() {
		t.Errorf("LIDCount() = %d, want %d", again.LIDCount(), disc.LIDCount())
	}
}

func TestLoadDisc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disc.yaml")
	if err := os.WriteFile(path, []byte(sampleCatalog), 0644); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}
	if _, err := LoadDisc(path); err != nil {
		t.Errorf("LoadDisc() failed: %v", err)
	}
	if _, err := LoadDisc(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadDisc() should fail for a missing file")
	}
}

func TestInfo_ApplyISO(t *testing.T) {
	info := Info{Volume: "KEEP"}
	info.ApplyISO(&cdio.ISODescriptor{
		VolumeID:            "IGNORED",
		PublisherIdentifier: "ACME",
		SystemID:            "CD-RTOS CD-BRIDGE",
		VolumeSetSize:       2,
		VolumeSequenceNum:   1,
	})
	if info.Volume != "KEEP" {
		t.Errorf("Volume = %q, want %q", info.Volume, "KEEP")
	}
	if info.Publisher != "ACME" || info.System != "CD-RTOS CD-BRIDGE" {
		t.Errorf("Publisher/System = %q/%q", info.Publisher, info.System)
	}
	if info.VolumeCount != 2 || info.VolumeNum != 1 {
		t.Errorf("VolumeCount/VolumeNum = %d/%d, want 2/1", info.VolumeCount, info.VolumeNum)
	}
}

func TestParseMRL(t *testing.T) {
	testCases := []struct {
		input    string
		source   string
		pbc      bool
		lids     uint32
		wantItem ItemID
	}{
		{"vcdx:///dev/cdrom@E3", "/dev/cdrom", true, 5, Entry(3)},
		{"vcdx://disc.bin@P2", "disc.bin", false, 0, List(2)},
		{"disc.bin@S1", "disc.bin", true, 5, Segment(1)},
		{"disc.bin", "disc.bin", true, 5, List(1)},
		{"disc.bin", "disc.bin", false, 5, Entry(0)},
		{"disc.bin", "disc.bin", true, 0, Entry(0)},
		{"vcdx://disc.bin@7", "disc.bin", false, 0, Entry(7)},
		{"vcdx://disc.bin@T", "disc.bin", false, 0, Track(1)},
		{"vcdx://", "", false, 0, Entry(0)},
	}

	for _, tc := range testCases {
		m, err := ParseMRL(tc.input)
		if err != nil {
			t.Errorf("ParseMRL(%q) failed: %v", tc.input, err)
			continue
		}
		if m.Source != tc.source {
			t.Errorf("ParseMRL(%q).Source = %q, want %q", tc.input, m.Source, tc.source)
		}
		if got := m.Resolve(tc.pbc, tc.lids); got != tc.wantItem {
			t.Errorf("ParseMRL(%q).Resolve(%v, %d) = %v, want %v", tc.input, tc.pbc, tc.lids, got, tc.wantItem)
		}
	}

	if _, err := ParseMRL("vcdx://disc.bin@Exx"); err == nil {
		t.Error("ParseMRL() should fail on a bad item number")
	}
}

func TestMRL_String(t *testing.T) {
	m := MRL{Source: "disc.bin", Kind: KindEntry, Num: 2, HasNum: true}
	if got := m.String(); got != "vcdx://disc.bin@E2" {
		t.Errorf("String() = %q, want %q", got, "vcdx://disc.bin@E2")
	}
	if got := (MRL{Source: "disc.bin"}).String(); got != "vcdx://disc.bin" {
		t.Errorf("String() = %q, want %q", got, "vcdx://disc.bin")
	}
}

func TestFormat(t *testing.T) {
	info := Info{
		Format:      "SVCD",
		Album:       " Holiday ",
		VolumeCount: 2,
		VolumeNum:   1,
		Volume:      "HOLIDAY_1",
		VolumeSet:   "HOLIDAY",
		Publisher:   "ACME",
		Preparer:    "ME",
	}

	testCases := []struct {
		name   string
		format string
		vars   FormatVars
		want   string
	}{
		{
			name:   "default title with PBC",
			format: DefaultTitleFormat,
			vars:   FormatVars{Item: Segment(2), LID: 4, MRL: "vcdx://d@S2", Segment: VideoPALStill},
			want:   "Segment 2 List ID 4 PAL still - vcdx://d@S2 Holiday HOLIDAY_1 - disc 1 of 2 SVCD",
		},
		{
			name:   "default title without PBC",
			format: DefaultTitleFormat,
			vars:   FormatVars{Item: Entry(0), MRL: "vcdx://d@E0"},
			want:   "Entry 0  - vcdx://d@E0 Holiday HOLIDAY_1 - disc 1 of 2 SVCD",
		},
		{
			name:   "default author",
			format: DefaultAuthorFormat,
			want:   "HOLIDAY_1 - SVCD disc 1 of 2",
		},
		{
			name:   "remaining escapes",
			format: "%T|%V|%p|%P|%%|%x|%",
			vars:   FormatVars{Track: 3},
			want:   "3|HOLIDAY|ME|ACME|%|%x|",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Format(tc.format, info, tc.vars); got != tc.want {
				t.Errorf("Format() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestWaitDuration(t *testing.T) {
	testCases := []struct {
		input  uint8
		want   time.Duration
		wantOK bool
	}{
		{0, 0, true},
		{5, 5 * time.Second, true},
		{60, 60 * time.Second, true},
		{61, 70 * time.Second, true},
		{254, 2000 * time.Second, true},
		{255, 0, false},
	}

	for _, tc := range testCases {
		got, ok := WaitDuration(tc.input)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("WaitDuration(%d) = %v, %v, want %v, %v", tc.input, got, ok, tc.want, tc.wantOK)
		}
	}
}
