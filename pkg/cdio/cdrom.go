// Package cdio provides sector-level access to Video CD disc images.
// This file contains the CD-ROM XA sector layout used by VCD and SVCD.
package cdio

// Sector size constants for CD-ROM XA images
const (
	CD_SECTOR_SIZE    = 2352 // Full raw CD sector size
	CD_M2_SECTOR_SIZE = 2336 // Mode 2 sector without sync and header
	CD_DATA_SIZE      = 2048 // Data portion of Mode 2 Form 1 sector
	M2F2_SECTOR_SIZE  = 2324 // Data portion of Mode 2 Form 2 sector
	CD_SYNC_SIZE      = 12   // Sync pattern size
	CD_HEADER_SIZE    = 4    // Header size (3 address bytes + 1 mode byte)
	CD_SUBHEADER_SIZE = 8    // XA subheader (copied twice)
)

// XA subheader submode bits
const (
	SubmodeEOR      = 0x01 // End of record
	SubmodeVideo    = 0x02
	SubmodeAudio    = 0x04
	SubmodeData     = 0x08
	SubmodeTrigger  = 0x10
	SubmodeForm2    = 0x20
	SubmodeRealTime = 0x40
	SubmodeEOF      = 0x80

	// Empty real-time Form 2 sectors are padding between MPEG packs.
	submodePadding = SubmodeForm2 | SubmodeRealTime
)

// NullLSN is the sentinel returned for sector locations that do not exist.
const NullLSN uint32 = 0xFFFFFFFF

// SubHeader is the CD-ROM XA subheader preceding the user data of every
// Mode 2 sector.
type SubHeader struct {
	FileNumber byte
	Channel    byte
	Submode    byte
	CodingInfo byte
	Copy       [4]byte // Repeat of the first four bytes
}

// Sector represents the user-visible part of a Mode 2 Form 2 sector: the
// subheader and the 2324 bytes of MPEG payload.
type Sector struct {
	SubHeader SubHeader
	Data      [M2F2_SECTOR_SIZE]byte
}

// IsPadding reports whether the sector carries no stream data.
func (s *Sector) IsPadding() bool {
	return s.SubHeader.Submode&^SubmodeEOR == submodePadding
}

// IsForm2 reports whether the sector was written as Mode 2 Form 2.
func (s *Sector) IsForm2() bool {
	return s.SubHeader.Submode&SubmodeForm2 != 0
}

func (s *Sector) decode(raw []byte) {
	s.SubHeader = SubHeader{
		FileNumber: raw[0],
		Channel:    raw[1],
		Submode:    raw[2],
		CodingInfo: raw[3],
	}
	copy(s.SubHeader.Copy[:], raw[4:CD_SUBHEADER_SIZE])
	copy(s.Data[:], raw[CD_SUBHEADER_SIZE:CD_SUBHEADER_SIZE+M2F2_SECTOR_SIZE])
}

// ISODescriptor holds the identifier fields of the ISO 9660 primary volume
// descriptor found at LSN 16 of every VCD.
type ISODescriptor struct {
	Type                   byte   // Volume descriptor type
	ID                     string // Standard identifier "CD001"
	Version                byte   // Volume descriptor version
	SystemID               string // System identifier
	VolumeID               string // Volume identifier
	VolumeSpaceSize        uint32 // Volume size in logical blocks
	VolumeSetSize          uint16
	VolumeSequenceNum      uint16
	LogicalBlockSize       uint16
	VolumeSetIdentifier    string
	PublisherIdentifier    string
	DataPreparerIdentifier string
	ApplicationIdentifier  string
}
