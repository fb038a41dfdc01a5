package cdio

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ISO_PVD_SECTOR is the LSN of the primary volume descriptor.
const ISO_PVD_SECTOR = 16

// ReadISODescriptor reads the ISO9660 primary volume descriptor from sector 16
func (img *Image) ReadISODescriptor() (*ISODescriptor, error) {
	data, err := img.ReadMode2Form1(ISO_PVD_SECTOR)
	if err != nil {
		return nil, err
	}

	// Validate ISO signature
	if string(data[1:6]) != "CD001" {
		return nil, fmt.Errorf("invalid ISO9660 signature")
	}

	descriptor := &ISODescriptor{}

	// Parse descriptor fields (both-endian fields, little-endian half used)
	descriptor.Type = data[0]
	descriptor.ID = string(data[1:6])
	descriptor.Version = data[6]
	descriptor.SystemID = isoString(data[8:40])
	descriptor.VolumeID = isoString(data[40:72])
	descriptor.VolumeSpaceSize = binary.LittleEndian.Uint32(data[80:84])
	descriptor.VolumeSetSize = binary.LittleEndian.Uint16(data[120:122])
	descriptor.VolumeSequenceNum = binary.LittleEndian.Uint16(data[124:126])
	descriptor.LogicalBlockSize = binary.LittleEndian.Uint16(data[128:130])
	descriptor.VolumeSetIdentifier = isoString(data[190:318])
	descriptor.PublisherIdentifier = isoString(data[318:446])
	descriptor.DataPreparerIdentifier = isoString(data[446:574])
	descriptor.ApplicationIdentifier = isoString(data[574:702])

	return descriptor, nil
}

// isoString decodes a space padded identifier field. Discs mastered on
// European systems store Latin-1 in these fields.
func isoString(field []byte) string {
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(field)
	if err != nil {
		decoded = field
	}
	return strings.TrimRight(string(decoded), " \x00")
}
