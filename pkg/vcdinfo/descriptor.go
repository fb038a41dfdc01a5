package vcdinfo

// DescriptorKind is the type of a PBC list descriptor.
type DescriptorKind int

const (
	KindEndList DescriptorKind = iota + 1
	KindPlayList
	KindSelectionList
	KindCommandList
)

func (k DescriptorKind) String() string {
	switch k {
	case KindEndList:
		return "end list"
	case KindPlayList:
		return "play list"
	case KindSelectionList:
		return "selection list"
	case KindCommandList:
		return "command list"
	default:
		return "unknown"
	}
}

// Descriptor is one node of the PBC graph. The set of implementations is
// closed: *EndList, *PlayList, *SelectionList and *CommandList.
type Descriptor interface {
	Kind() DescriptorKind
	isDescriptor()
}

// EndList terminates playback.
type EndList struct {
	// NextDisc and StillItem are informational only.
	NextDisc  uint8
	StillItem ItemID
}

// PlayList plays its items in order, then waits WaitTime and follows Next.
type PlayList struct {
	Items    []ItemID
	Next     LID
	Prev     LID
	Return   LID
	PlayTime uint16 // in 1/15 s, 0 for the full item
	WaitTime uint8  // after the last item, see WaitDuration
	AutoWait uint8  // between items
}

// SelectionList shows Item (usually a menu still) and waits for the user to
// pick one of Selections, numbered from BSN.
type SelectionList struct {
	Extended    bool
	Item        ItemID
	BSN         uint16
	Selections  []LID
	Default     LID
	LoopCount   uint8 // 0 loops forever
	JumpTiming  bool
	TimeoutLID  LID
	TimeoutTime uint8
	Next        LID
	Prev        LID
	Return      LID
}

// CommandList holds VCD 3.0 commands. Playback does not interpret them.
type CommandList struct {
	Commands []uint16
}

func (*EndList) Kind() DescriptorKind       { return KindEndList }
func (*PlayList) Kind() DescriptorKind      { return KindPlayList }
func (*SelectionList) Kind() DescriptorKind { return KindSelectionList }
func (*CommandList) Kind() DescriptorKind   { return KindCommandList }

func (*EndList) isDescriptor()       {}
func (*PlayList) isDescriptor()      {}
func (*SelectionList) isDescriptor() {}
func (*CommandList) isDescriptor()   {}

// Selection returns the LID bound to selection number n.
func (s *SelectionList) Selection(n uint16) (LID, bool) {
	if n < s.BSN || int(n-s.BSN) >= len(s.Selections) {
		return NoLID, false
	}
	return s.Selections[n-s.BSN], true
}
