package wire

import "fmt"

// MaxMessageLen is the largest DNS message that fits TCP framing's 16-bit
// length prefix.
const MaxMessageLen = 0xFFFF

// Message is a fully parsed DNS message.
type Message struct {
	Header      Header
	Questions   []Question
	Answers     []ResourceRecord
	Authorities []ResourceRecord
	Additionals []ResourceRecord
}

// capCount bounds the initial allocation for a section so a forged header
// declaring thousands of entries in a tiny message cannot force a large
// allocation before parsing fails.
func capCount(declared uint16) int {
	const maxPrealloc = 64
	return min(int(declared), maxPrealloc)
}

// ParseMessage decodes a complete DNS message from buf.
//
// The parse is a single forward pass: header, questions, then the record
// sections in answer, authority, additional order via a [SectionTracker].
// Exactly the declared number of entries is read from each section; a
// message whose buffer ends before its counts are satisfied fails rather
// than yielding a short result. Opcode and response code are validated as
// they are decomposed from the flags.
func ParseMessage(buf []byte) (*Message, error) {
	r := NewReader(buf)

	h, err := ParseHeader(r)
	if err != nil {
		return nil, err
	}
	if _, err := h.Flags.OpCode(); err != nil {
		return nil, err
	}
	if _, err := h.Flags.RCode(); err != nil {
		return nil, err
	}

	msg := &Message{Header: h}

	msg.Questions = make([]Question, 0, capCount(h.QDCount))
	for i := uint16(0); i < h.QDCount; i++ {
		q, err := ParseQuestion(r)
		if err != nil {
			return nil, err
		}
		msg.Questions = append(msg.Questions, q)
	}

	msg.Answers = make([]ResourceRecord, 0, capCount(h.ANCount))
	msg.Authorities = make([]ResourceRecord, 0, capCount(h.NSCount))
	msg.Additionals = make([]ResourceRecord, 0, capCount(h.ARCount))

	tracker := NewSectionTracker(h)
	for {
		s, ok := tracker.Next()
		if !ok {
			break
		}
		rr, err := ParseRecord(r)
		if err != nil {
			return nil, fmt.Errorf("%v section: %w", s, err)
		}
		if err := tracker.Read(s); err != nil {
			return nil, err
		}
		switch s {
		case SectionAnswer:
			msg.Answers = append(msg.Answers, rr)
		case SectionAuthority:
			msg.Authorities = append(msg.Authorities, rr)
		case SectionAdditional:
			msg.Additionals = append(msg.Additionals, rr)
		}
	}
	return msg, nil
}

// ParseResponse decodes a message that is expected to be the response to a
// single-question query. It applies the response policy on top of
// [ParseMessage]: the question section must hold exactly one entry.
//
// Matching the response against the query that elicited it (ID, question
// name, type, class) is the transport caller's concern.
func ParseResponse(buf []byte) (*Message, error) {
	msg, err := ParseMessage(buf)
	if err != nil {
		return nil, err
	}
	if msg.Header.QDCount != 1 || len(msg.Questions) != 1 {
		return nil, fmt.Errorf("%w: %d", ErrBadQuestionsCount, msg.Header.QDCount)
	}
	return msg, nil
}

// Question returns the single question of a response parsed with
// [ParseResponse].
func (m *Message) Question() Question {
	if len(m.Questions) == 0 {
		return Question{}
	}
	return m.Questions[0]
}

// Records returns all resource records in on-wire order: answers, then
// authorities, then additionals.
func (m *Message) Records() []ResourceRecord {
	out := make([]ResourceRecord, 0, len(m.Answers)+len(m.Authorities)+len(m.Additionals))
	out = append(out, m.Answers...)
	out = append(out, m.Authorities...)
	out = append(out, m.Additionals...)
	return out
}
