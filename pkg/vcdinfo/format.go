package vcdinfo

import (
	"strconv"
	"strings"
	"time"
)

// Default title and author formats.
const (
	DefaultTitleFormat  = "%I %N %L%S - %M %A %v - disc %c of %C %F"
	DefaultAuthorFormat = "%v - %F disc %c of %C"
)

// FormatVars is the playback state a format string can refer to.
type FormatVars struct {
	Item    ItemID
	LID     LID // NoLID when PBC is off
	Track   uint32
	MRL     string
	Segment VideoKind
}

// Format expands the % escapes of format:
//
//	%A album            %c volume number    %C volume count
//	%F disc format      %I item kind        %L list ID (PBC only)
//	%M MRL              %N item number      %p preparer
//	%P publisher        %S segment type     %T track number
//	%V volume set       %v volume           %% a literal %
//
// Unknown escapes are copied through unchanged.
func Format(format string, info Info, vars FormatVars) string {
	var b strings.Builder
	prefix := false

	for _, c := range format {
		if !prefix {
			if c == '%' {
				prefix = true
			} else {
				b.WriteRune(c)
			}
			continue
		}
		prefix = false

		switch c {
		case 'A':
			b.WriteString(strings.TrimSpace(info.Album))
		case 'c':
			b.WriteString(strconv.FormatUint(uint64(info.VolumeNum), 10))
		case 'C':
			b.WriteString(strconv.FormatUint(uint64(info.VolumeCount), 10))
		case 'F':
			b.WriteString(info.Format)
		case 'I':
			b.WriteString(vars.Item.Kind.String())
		case 'L':
			if vars.LID != NoLID {
				b.WriteString("List ID ")
				b.WriteString(strconv.FormatUint(uint64(vars.LID), 10))
			}
		case 'M':
			b.WriteString(vars.MRL)
		case 'N':
			b.WriteString(strconv.FormatUint(uint64(vars.Item.Num), 10))
		case 'p':
			b.WriteString(info.Preparer)
		case 'P':
			b.WriteString(info.Publisher)
		case 'S':
			if vars.Item.Kind == KindSegment {
				b.WriteByte(' ')
				b.WriteString(vars.Segment.Description())
			}
		case 'T':
			b.WriteString(strconv.FormatUint(uint64(vars.Track), 10))
		case 'V':
			b.WriteString(info.VolumeSet)
		case 'v':
			b.WriteString(info.Volume)
		case '%':
			b.WriteByte('%')
		default:
			b.WriteByte('%')
			b.WriteRune(c)
		}
	}
	return b.String()
}

// WaitForever is the wait byte meaning "until the user acts".
const WaitForever = 255

// WaitDuration decodes a VCD wait byte. Values up to 60 are seconds, larger
// values count in 10 second steps past the first minute. 255 returns
// ok == false.
func WaitDuration(v uint8) (d time.Duration, ok bool) {
	switch {
	case v == WaitForever:
		return 0, false
	case v <= 60:
		return time.Duration(v) * time.Second, true
	default:
		return time.Duration(60+(int(v)-60)*10) * time.Second, true
	}
}
