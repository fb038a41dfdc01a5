package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
	"github.com/hansbonini/vcdplayer/pkg/vcdplayer"
)

type videoReader struct{}

func (videoReader) ReadMode2Sector(lsn uint32, sec *cdio.Sector) error {
	sec.SubHeader = cdio.SubHeader{Submode: cdio.SubmodeForm2 | cdio.SubmodeRealTime | cdio.SubmodeVideo}
	return nil
}

func TestDefaultCatalogPath(t *testing.T) {
	testCases := map[string]string{
		"disc.bin":             "disc.yaml",
		"/discs/movie.cue.bin": "/discs/movie.cue.yaml",
		"noext":                "noext.yaml",
	}
	for image, want := range testCases {
		if got := defaultCatalogPath(image); got != want {
			t.Errorf("defaultCatalogPath(%q) = %q, want %q", image, got, want)
		}
	}
}

func newPlaySession(t *testing.T, lids ...vcdinfo.Descriptor) *vcdplayer.Session {
	t.Helper()
	logger, _ := test.NewNullLogger()
	disc := &vcdinfo.Disc{
		Tracks:  []vcdinfo.Extent{{Start: 100, Sectors: 5}},
		Entries: []vcdinfo.EntryPoint{{Track: 1, Start: 100}},
		Segments: []vcdinfo.SegmentItem{
			{Extent: vcdinfo.Extent{Start: 10, Sectors: 2}, Video: vcdinfo.VideoPALStill},
		},
		LIDs: lids,
	}
	s := vcdplayer.Open(videoReader{}, disc, vcdplayer.Options{Logger: log.NewEntry(logger)})
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPlayLoop_UntilEnd(t *testing.T) {
	s := newPlaySession(t)
	if err := s.Play(vcdinfo.Track(1)); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	var out bytes.Buffer
	written, err := playLoop(context.Background(), s, &out, false)
	if err != nil {
		t.Fatalf("playLoop() failed: %v", err)
	}
	if want := uint64(5 * cdio.M2F2_SECTOR_SIZE); written != want || uint64(out.Len()) != want {
		t.Errorf("playLoop() wrote %d (%d buffered), want %d", written, out.Len(), want)
	}
}

func TestPlayLoop_StopsOnIndefiniteStill(t *testing.T) {
	s := newPlaySession(t)
	if err := s.Play(vcdinfo.Segment(0)); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		_, err := playLoop(context.Background(), s, &out, false)
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("playLoop() failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("playLoop() did not return on an indefinite still frame")
	}
	if out.Len() != 2*cdio.M2F2_SECTOR_SIZE {
		t.Errorf("playLoop() wrote %d bytes, want %d", out.Len(), 2*cdio.M2F2_SECTOR_SIZE)
	}
}

func TestPlayLoop_Cancelled(t *testing.T) {
	s := newPlaySession(t, &vcdinfo.PlayList{
		Items:    []vcdinfo.ItemID{vcdinfo.Track(1)},
		WaitTime: 60,
	})
	if err := s.Play(vcdinfo.List(1)); err != nil {
		t.Fatalf("Play() failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := playLoop(ctx, s, &bytes.Buffer{}, false)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("playLoop() error = %v, want context.DeadlineExceeded", err)
	}
}
