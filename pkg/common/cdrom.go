// Package common provides shared helpers for the VCD player: logging,
// message constants, CD-ROM address maths and checked integer conversions.
package common

import "fmt"

// Frames per second and the lead-in pregap used by MSF addressing.
const (
	FramesPerSecond = 75
	PregapFrames    = 150
)

// LBAToMSF converts LBA (Logical Block Address) to MSF (Minutes:Seconds:Frames) format
// LBA to MSF conversion: LBA + 150 (pregap)
func LBAToMSF(lba uint32) string {
	totalFrames := lba + PregapFrames

	minutes := totalFrames / (60 * FramesPerSecond)
	seconds := (totalFrames % (60 * FramesPerSecond)) / FramesPerSecond
	frames := totalFrames % FramesPerSecond

	return fmt.Sprintf("%02d:%02d:%02d", minutes, seconds, frames)
}

// SectorsToDuration returns the playing time of a run of sectors as
// "MM:SS" at the nominal 75 sectors per second.
func SectorsToDuration(sectors uint32) string {
	seconds := sectors / FramesPerSecond
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SectorsToBytes returns the payload size in bytes of a sector count.
func SectorsToBytes(sectors uint32, sectorSize uint32) uint64 {
	return uint64(sectors) * uint64(sectorSize)
}
