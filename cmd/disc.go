package cmd

import (
	"math/rand"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/hansbonini/vcdplayer/pkg/cdio"
	"github.com/hansbonini/vcdplayer/pkg/common"
	"github.com/hansbonini/vcdplayer/pkg/vcdinfo"
	"github.com/hansbonini/vcdplayer/pkg/vcdplayer"
)

// openedDisc is an image together with the catalog that describes it.
type openedDisc struct {
	image *cdio.Image
	disc  *vcdinfo.Disc
	mrl   vcdinfo.MRL
}

// defaultCatalogPath returns the catalog expected next to an image:
// disc.bin is described by disc.yaml.
func defaultCatalogPath(image string) string {
	return strings.TrimSuffix(image, filepath.Ext(image)) + ".yaml"
}

// openDisc opens the image named by location, a path or a vcdx:// MRL,
// and loads its catalog. The volume fields of the image fill in what the
// catalog leaves empty.
func openDisc(location, catalog string) (*openedDisc, error) {
	mrl, err := vcdinfo.ParseMRL(location)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToParseItem, err)
	}
	if catalog == "" {
		catalog = defaultCatalogPath(mrl.Source)
	}

	disc, err := vcdinfo.LoadDisc(catalog)
	if err != nil {
		return nil, err
	}
	img, err := cdio.Open(mrl.Source)
	if err != nil {
		return nil, err
	}

	if pvd, err := img.ReadISODescriptor(); err != nil {
		common.LogDebug("no ISO9660 volume descriptor: %v", err)
	} else {
		disc.Info.ApplyISO(pvd)
	}
	return &openedDisc{image: img, disc: disc, mrl: mrl}, nil
}

func (d *openedDisc) Close() error {
	return d.image.Close()
}

// startItem picks the first item to play: the --item flag, then the item
// of the MRL, then the disc default.
func (d *openedDisc) startItem(flag string, pbc bool) (vcdinfo.ItemID, error) {
	if flag != "" {
		item, err := vcdinfo.ParseItem(flag)
		if err != nil {
			return vcdinfo.ItemID{}, common.FormatError(common.ErrFailedToParseItem, err)
		}
		return item, nil
	}
	return d.mrl.Resolve(pbc, d.disc.LIDCount()), nil
}

// options builds session options from the loaded configuration.
func (d *openedDisc) options(pbc bool) vcdplayer.Options {
	opts := vcdplayer.Options{
		PBC:           pbc,
		BlocksPerRead: cfg.Player.BlocksPerRead,
		MaxHops:       cfg.Player.MaxHops,
		StillDelay:    cfg.Player.StillDelay(),
		Logger:        log.WithField("disc", filepath.Base(d.mrl.Source)),
		Info:          d.disc.Info,
		Source:        d.mrl.Source,
	}
	if cfg.Player.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.Player.Seed))
	}
	return opts
}
