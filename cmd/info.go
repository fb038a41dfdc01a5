package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
)

// infoCmd prints a summary of a disc catalog.
// When an image is given its ISO9660 volume fields are merged in first.
var infoCmd = &cobra.Command{
	Use:   "info [catalog_file] [image_file]",
	Short: "Show the contents of a disc catalog",
	Long: `Show the contents of a disc catalog.

Lists the tracks, entry points, segment play items and playback control
lists of a disc. Addresses are shown as LSN and MSF (Minutes:Seconds:Frames).
When the disc image is given, its volume descriptor fills in identification
fields the catalog leaves empty.

Example:
  vcdplayer info disc.yaml
  vcdplayer info disc.yaml disc.bin
  vcdplayer info --yaml disc.yaml disc.bin > merged.yaml`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disc, err := vcdinfo.LoadDisc(args[0])
		if err != nil {
			return err
		}

		if len(args) == 2 {
			img, err := cdio.Open(args[1])
			if err != nil {
				return err
			}
			defer img.Close()

			pvd, err := img.ReadISODescriptor()
			if err != nil {
				common.LogWarn("No volume descriptor in %s: %v", args[1], err)
			} else {
				disc.Info.ApplyISO(pvd)
			}
		}

		dumpYAML, _ := cmd.Flags().GetBool("yaml")
		if dumpYAML {
			return disc.WriteYAML(os.Stdout)
		}

		printDisc(disc)
		return nil
	},
}

func printDisc(disc *vcdinfo.Disc) {
	info := disc.Info
	fmt.Printf("Format:      %s\n", info.Format)
	fmt.Printf("Album:       %s (disc %d of %d)\n", info.Album, info.VolumeNum, info.VolumeCount)
	if info.Volume != "" {
		fmt.Printf("Volume:      %s\n", info.Volume)
	}
	if info.Publisher != "" {
		fmt.Printf("Publisher:   %s\n", info.Publisher)
	}
	if info.Preparer != "" {
		fmt.Printf("Preparer:    %s\n", info.Preparer)
	}
	if info.Application != "" {
		fmt.Printf("Application: %s\n", info.Application)
	}

	fmt.Printf("\nTracks: %d\n", disc.TrackCount())
	fmt.Printf("%-4s %-10s %-10s %-8s %-6s %-10s %s\n", "#", "LSN", "MSF", "Length", "Time", "Size", "Entries")
	for i := range disc.Tracks {
		track := uint32(i + 1)
		start, sectors := disc.TrackStart(track), disc.TrackSectors(track)
		entries := "-"
		if first, last, ok := disc.TrackEntries(track); ok {
			entries = fmt.Sprintf("%d-%d", first, last)
		}
		fmt.Printf("%-4d %-10d %-10s %-8d %-6s %-10s %s\n",
			track, start, common.LBAToMSF(start), sectors,
			common.SectorsToDuration(sectors),
			humanize.Bytes(common.SectorsToBytes(sectors, cdio.M2F2_SECTOR_SIZE)),
			entries)
	}

	if len(disc.Entries) > 0 {
		fmt.Printf("\nEntries: %d\n", disc.EntryCount())
		for i, e := range disc.Entries {
			entry := uint32(i)
			fmt.Printf("  E%-3d track %-2d %-10d %s  %s\n", entry, e.Track, e.Start,
				common.LBAToMSF(e.Start), common.SectorsToDuration(disc.EntrySectors(entry)))
		}
	}

	if len(disc.Segments) > 0 {
		fmt.Printf("\nSegments: %d\n", disc.SegmentCount())
		for i, seg := range disc.Segments {
			fmt.Printf("  S%-3d %-10d %5d sectors  %s\n", i, seg.Start, seg.Sectors, seg.Video.Description())
		}
	}

	if len(disc.LIDs) > 0 {
		fmt.Printf("\nPlayback control: %s lists\n", humanize.Comma(int64(disc.LIDCount())))
		for i, desc := range disc.LIDs {
			fmt.Printf("  P%-3d %s\n", i+1, describe(desc))
		}
	}
}

func describe(desc vcdinfo.Descriptor) string {
	switch d := desc.(type) {
	case *vcdinfo.PlayList:
		return fmt.Sprintf("%s of %d items, wait %d, next %d", d.Kind(), len(d.Items), d.WaitTime, d.Next)
	case *vcdinfo.SelectionList:
		return fmt.Sprintf("%s on %s, %d selections from %d, timeout %d after %d",
			d.Kind(), d.Item, len(d.Selections), d.BSN, d.TimeoutLID, d.TimeoutTime)
	case *vcdinfo.CommandList:
		return fmt.Sprintf("%s of %d commands", d.Kind(), len(d.Commands))
	default:
		return desc.Kind().String()
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().Bool("yaml", false, "Print the catalog as YAML instead of a summary")
}
