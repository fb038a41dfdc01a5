package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdplayer"
)

// playCmd streams the MPEG payload of a disc.
// It follows the PBC lists of the disc unless --no-pbc is given.
var playCmd = &cobra.Command{
	Use:   "play [image_file|mrl]",
	Short: "Stream the MPEG payload of a disc image",
	Long: `Stream the MPEG payload of a disc image to a file or pipe.

The location is a path to a .bin/.img image or a vcdx:// MRL selecting a
starting item, for example vcdx://disc.bin@E2 for the third entry point or
vcdx://disc.bin@P1 for the first playback control list. The catalog is read
from the image path with a .yaml extension unless --catalog is given.

Still frames are held for their wait time. A still frame waiting for user
input ends playback, since there is nobody to make a selection.

Example:
  vcdplayer play disc.bin -o movie.mpg
  vcdplayer play vcdx://disc.bin@T2 | mpv -
  vcdplayer play --no-pbc --item S3 disc.bin -o menu.mpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, _ := cmd.Flags().GetString("catalog")
		itemFlag, _ := cmd.Flags().GetString("item")
		output, _ := cmd.Flags().GetString("output")
		noWait, _ := cmd.Flags().GetBool("no-wait")
		noPBC, _ := cmd.Flags().GetBool("no-pbc")

		var out io.Writer = os.Stdout
		if output == "" || output == "-" {
			fd := os.Stdout.Fd()
			if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
				return errors.New(common.ErrRefusingTerminalOutput)
			}
		} else {
			f, err := os.Create(output)
			if err != nil {
				return common.FormatError(common.ErrFailedToCreateOutputFile, err)
			}
			defer f.Close()
			out = f
		}

		d, err := openDisc(args[0], catalog)
		if err != nil {
			return err
		}
		defer d.Close()

		pbc := cfg.Player.PBCEnabled() && !noPBC
		item, err := d.startItem(itemFlag, pbc)
		if err != nil {
			return err
		}

		s := vcdplayer.Open(d.image, d.disc, d.options(pbc))
		defer s.Close()
		if err := s.Play(item); err != nil {
			return common.FormatError(common.ErrFailedToStartPlayback, err)
		}
		log.Infof(common.InfoPlaybackStarted, s.Title(cfg.Format.Title))
		log.Info(s.Title(cfg.Format.Author))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		written, err := playLoop(ctx, s, out, noWait)
		log.Infof(common.InfoPlaybackFinished, humanize.Bytes(written))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// playLoop copies read results to out until playback ends. It returns the
// number of payload bytes written.
func playLoop(ctx context.Context, s *vcdplayer.Session, out io.Writer, noWait bool) (uint64, error) {
	var written uint64
	for {
		res := s.ReadBlock(ctx)
		switch res.Status {
		case vcdplayer.StatusBlock:
			n, err := out.Write(res.Data)
			written += uint64(n)
			if err != nil {
				return written, common.FormatError(common.ErrFailedToWriteStream, err)
			}

		case vcdplayer.StatusStillFrame:
			d, ok := res.WaitDuration()
			if !ok {
				log.Info(common.InfoStillFrameForever)
				return written, nil
			}
			if noWait {
				continue
			}
			log.Infof(common.InfoStillFrame, d)
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return written, ctx.Err()
			}

		case vcdplayer.StatusError:
			if err := ctx.Err(); err != nil {
				return written, err
			}
			if errors.Is(res.Err, vcdplayer.ErrMalformedGraph) {
				return written, res.Err
			}
			log.Warn(res.Err)

		case vcdplayer.StatusEnd:
			return written, nil
		}
	}
}

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().String("catalog", "", "Catalog file (default: image path with a .yaml extension)")
	playCmd.Flags().String("item", "", "Item to start with, such as T1, E0, S2 or P1")
	playCmd.Flags().StringP("output", "o", "", "Output file for the MPEG stream (default: stdout)")
	playCmd.Flags().Bool("no-wait", false, "Do not hold still frames for their wait time")
	playCmd.Flags().Bool("no-pbc", false, "Ignore playback control lists")
}
