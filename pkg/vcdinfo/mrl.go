package vcdinfo

import (
	"fmt"
	"strconv"
	"strings"
)

// MRLScheme prefixes VCD locations.
const MRLScheme = "vcdx://"

// MRL is a parsed VCD location of the form vcdx://[source][@[T|E|S|P]num].
type MRL struct {
	Source string
	Kind   ItemKind // KindNotFound when no letter was given
	Num    uint32
	HasNum bool
}

// ParseMRL splits a location into its source and optional item. The scheme
// is optional.
func ParseMRL(s string) (MRL, error) {
	var m MRL
	s = strings.TrimPrefix(s, MRLScheme)

	at := strings.LastIndexByte(s, '@')
	if at < 0 {
		m.Source = s
		return m, nil
	}
	m.Source = s[:at]
	item := s[at+1:]
	if item == "" {
		return m, nil
	}

	if kind, ok := kindFromLetter(item[0]); ok {
		m.Kind = kind
		item = item[1:]
	}
	if item == "" {
		return m, nil
	}
	n, err := strconv.ParseUint(item, 10, 32)
	if err != nil {
		return MRL{}, fmt.Errorf("invalid item number in MRL %q: %w", s, err)
	}
	m.Num = uint32(n)
	m.HasNum = true
	return m, nil
}

// Resolve fills the parts of the item the MRL left out. Without a letter
// the first list is used when pbc is on and the disc has lists, otherwise
// the first entry.
func (m MRL) Resolve(pbc bool, lids uint32) ItemID {
	kind := m.Kind
	if kind == KindNotFound {
		kind = KindEntry
		if pbc && lids > 0 {
			kind = KindLID
		}
	}
	num := m.Num
	if !m.HasNum {
		num = 0
		if kind == KindLID || kind == KindTrack {
			num = 1
		}
	}
	return ItemID{Kind: kind, Num: num}
}

// String formats the MRL with an explicit item.
func (m MRL) String() string {
	var b strings.Builder
	b.WriteString(MRLScheme)
	b.WriteString(m.Source)
	if m.Kind != KindNotFound || m.HasNum {
		b.WriteByte('@')
		if m.Kind != KindNotFound {
			b.WriteByte(m.Kind.Letter())
		}
		if m.HasNum {
			b.WriteString(strconv.FormatUint(uint64(m.Num), 10))
		}
	}
	return b.String()
}
