package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/server"
	"github.com/hansbonini/vcdplayer/pkg/vcdplayer"
)

// serveCmd runs a player behind the HTTP remote control.
var serveCmd = &cobra.Command{
	Use:   "serve [image_file|mrl]",
	Short: "Control playback of a disc image over HTTP",
	Long: `Control playback of a disc image over HTTP.

Routes:
  GET  /status          current position and title
  POST /play/{item}     play an item (T1, E0, S2, P1)
  POST /nav/{op}        next, prev, return or default
  POST /select/{n}      activate selection n
  POST /seek?offset=n   seek to a byte offset in the current item
  GET  /stream          the MPEG payload (video/mpeg), one client at a time

Example:
  vcdplayer serve disc.bin --bind :8090
  curl -X POST localhost:8090/nav/next`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, _ := cmd.Flags().GetString("catalog")
		itemFlag, _ := cmd.Flags().GetString("item")
		noPBC, _ := cmd.Flags().GetBool("no-pbc")
		autoplay, _ := cmd.Flags().GetBool("autoplay")
		bind := cfg.Server.Bind
		if cmd.Flags().Changed("bind") {
			bind, _ = cmd.Flags().GetString("bind")
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

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		st := vcdplayer.NewStreamer(vcdplayer.Open(d.image, d.disc, d.options(pbc)))
		runErr := make(chan error, 1)
		go func() { runErr <- st.Run(ctx) }()

		if autoplay {
			if err := st.Play(ctx, item); err != nil {
				return common.FormatError(common.ErrFailedToStartPlayback, err)
			}
		}

		srv := server.New(st, cfg.Format.Title, log.WithField("disc", d.mrl.Source))
		httpServer := &http.Server{
			Addr:              bind,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Infof(common.InfoServerListening, bind)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			stop()
			<-runErr
			return common.FormatError(common.ErrRunningServer, err)
		}
		if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("catalog", "", "Catalog file (default: image path with a .yaml extension)")
	serveCmd.Flags().String("item", "", "Item to start with, such as T1, E0, S2 or P1")
	serveCmd.Flags().String("bind", "", "Address to listen on (default from config, 127.0.0.1:8090)")
	serveCmd.Flags().Bool("no-pbc", false, "Ignore playback control lists")
	serveCmd.Flags().Bool("autoplay", true, "Start playing when the server starts")
}
