package wire

import "fmt"

// Section identifies one of the three resource record sections.
type Section int

const (
	SectionAnswer Section = iota
	SectionAuthority
	SectionAdditional
)

func (s Section) String() string {
	switch s {
	case SectionAnswer:
		return "answer"
	case SectionAuthority:
		return "authority"
	case SectionAdditional:
		return "additional"
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// SectionTracker holds the remaining record counts declared by a message
// header and enforces the fixed read order answer, authority, additional.
// It turns the single forward pass over the record sections into a checked
// protocol: a section can never be revisited and never yields more records
// than its header count declared.
type SectionTracker struct {
	remaining [3]uint16
}

// NewSectionTracker copies the record counts from h.
func NewSectionTracker(h Header) SectionTracker {
	return SectionTracker{remaining: [3]uint16{h.ANCount, h.NSCount, h.ARCount}}
}

// Next returns the first section, in order, that still has unread
// entries. ok is false when all sections are exhausted.
func (t *SectionTracker) Next() (s Section, ok bool) {
	for i, n := range t.remaining {
		if n > 0 {
			return Section(i), true
		}
	}
	return 0, false
}

// Read records that one entry of section s has been consumed. Reading a
// section with no remaining entries, or while an earlier section still has
// entries, is a structural protocol error.
func (t *SectionTracker) Read(s Section) error {
	if s < SectionAnswer || s > SectionAdditional {
		return fmt.Errorf("%w: %v", ErrBadSection, s)
	}
	if t.remaining[s] == 0 {
		return fmt.Errorf("%w: %v has no remaining entries", ErrBadSection, s)
	}
	for i := Section(0); i < s; i++ {
		if t.remaining[i] > 0 {
			return fmt.Errorf("%w: %v read before %v exhausted", ErrBadSection, s, i)
		}
	}
	t.remaining[s]--
	return nil
}
