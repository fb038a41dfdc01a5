// Package cdio provides sector-level access to Video CD disc images.
// Images are raw BIN dumps with either full 2352-byte sectors or 2336-byte
// Mode 2 sectors (no sync and header).
package cdio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hansbonini/vcdplayer/pkg/common"
)

// LogLevel is the severity of a message emitted by an Image.
type LogLevel int

const (
	LogDebug LogLevel = iota + 1
	LogInfo
	LogWarn
	LogError
	LogAssert
)

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "debug"
	case LogInfo:
		return "info"
	case LogWarn:
		return "warn"
	case LogError:
		return "error"
	case LogAssert:
		return "assert"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// LogFunc receives messages from an Image. ctx is the value given to
// SetLogHandler, passed back unchanged.
type LogFunc func(ctx any, level LogLevel, message string)

// ErrOutOfRange is returned when reading past the end of the image.
var ErrOutOfRange = errors.New("LSN out of range")

// Image provides read access to the sectors of a disc image file
type Image struct {
	r            io.ReaderAt
	closer       io.Closer
	sectorSize   int64
	dataOffset   int64 // offset of the XA subheader inside a sector
	totalSectors uint32

	logFn  LogFunc
	logCtx any
}

// Open opens a disc image file and detects its sector size
func Open(filename string) (*Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenImage, err)
	}

	// Get total sectors
	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, common.FormatError(common.ErrFailedToOpenImage, err)
	}

	img, err := NewImage(file, fileInfo.Size())
	if err != nil {
		file.Close()
		return nil, err
	}
	img.closer = file

	common.LogDebug(common.InfoImageOpened, filename, img.totalSectors, img.sectorSize)
	return img, nil
}

// NewImage wraps an already open image of the given size in bytes.
func NewImage(r io.ReaderAt, size int64) (*Image, error) {
	img := &Image{r: r}

	switch {
	case size > 0 && size%CD_SECTOR_SIZE == 0:
		img.sectorSize = CD_SECTOR_SIZE
		img.dataOffset = CD_SYNC_SIZE + CD_HEADER_SIZE
	case size > 0 && size%CD_M2_SECTOR_SIZE == 0:
		img.sectorSize = CD_M2_SECTOR_SIZE
		img.dataOffset = 0
	default:
		return nil, common.FormatErrorString(common.ErrFailedToOpenImage, "%s (%d bytes)",
			common.ErrImageSizeNotAligned, size)
	}

	total, err := common.SafeInt64ToUint32(size / img.sectorSize)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToOpenImage, err)
	}
	img.totalSectors = total
	return img, nil
}

// Close releases the underlying file, if any.
func (img *Image) Close() error {
	if img.closer != nil {
		return img.closer.Close()
	}
	return nil
}

// SetLogHandler routes the image's diagnostics to fn, passing ctx back on
// every call. A nil fn restores the default package logging.
func (img *Image) SetLogHandler(fn LogFunc, ctx any) {
	img.logFn = fn
	img.logCtx = ctx
	img.logf(LogDebug, common.DebugImageRegistered)
}

// TotalSectors returns the number of sectors in the image.
func (img *Image) TotalSectors() uint32 {
	return img.totalSectors
}

// SectorSize returns the on-disk size of one sector (2352 or 2336).
func (img *Image) SectorSize() int {
	return int(img.sectorSize)
}

// ReadMode2Sector reads the subheader and Form 2 payload of the sector at lsn.
func (img *Image) ReadMode2Sector(lsn uint32, sec *Sector) error {
	var raw [CD_SUBHEADER_SIZE + M2F2_SECTOR_SIZE]byte
	if err := img.readAt(lsn, raw[:]); err != nil {
		return err
	}
	sec.decode(raw[:])
	return nil
}

// ReadMode2Form1 reads the 2048 data bytes of a Mode 2 Form 1 sector.
func (img *Image) ReadMode2Form1(lsn uint32) ([]byte, error) {
	raw := make([]byte, CD_SUBHEADER_SIZE+CD_DATA_SIZE)
	if err := img.readAt(lsn, raw); err != nil {
		return nil, err
	}
	return raw[CD_SUBHEADER_SIZE:], nil
}

func (img *Image) readAt(lsn uint32, buf []byte) error {
	if lsn == NullLSN || lsn >= img.totalSectors {
		err := fmt.Errorf("%w: %d (total: %d)", ErrOutOfRange, lsn, img.totalSectors)
		img.logf(LogWarn, common.WarnCouldNotReadLSN, lsn, err)
		return err
	}

	offset := int64(lsn)*img.sectorSize + img.dataOffset
	img.logf(LogDebug, common.DebugImageReadSector, lsn, offset)

	if _, err := img.r.ReadAt(buf, offset); err != nil {
		img.logf(LogWarn, common.WarnCouldNotReadLSN, lsn, err)
		return common.FormatError(common.ErrFailedToReadSector, err)
	}
	return nil
}

func (img *Image) logf(level LogLevel, format string, args ...interface{}) {
	if img.logFn != nil {
		img.logFn(img.logCtx, level, fmt.Sprintf(format, args...))
		return
	}

	switch level {
	case LogDebug, LogInfo:
		common.LogDebug(format, args...)
	case LogWarn:
		common.LogWarn(format, args...)
	default:
		common.LogError(format, args...)
	}
}
