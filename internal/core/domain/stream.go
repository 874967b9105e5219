package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// StreamID is the composite identifier of a stream entry: a millisecond
// timestamp and a sequence counter. IDs are ordered lexicographically by
// (ms, seq) and must strictly increase within a stream.
type StreamID struct {
	Ms  uint64
	Seq uint64
}

// Range sentinels accepted by XRANGE: "-" is the smallest possible ID,
// "+" the largest.
var (
	MinStreamID = StreamID{Ms: 0, Seq: 0}
	MaxStreamID = StreamID{Ms: math.MaxUint64, Seq: math.MaxUint64}
)

// Compare returns -1, 0, or 1 as id orders before, equal to, or after
// other.
func (id StreamID) Compare(other StreamID) int {
	switch {
	case id.Ms < other.Ms:
		return -1
	case id.Ms > other.Ms:
		return 1
	case id.Seq < other.Seq:
		return -1
	case id.Seq > other.Seq:
		return 1
	default:
		return 0
	}
}

// Less reports whether id orders strictly before other.
func (id StreamID) Less(other StreamID) bool {
	return id.Compare(other) < 0
}

// IsZero reports whether id is the reserved minimum 0-0.
func (id StreamID) IsZero() bool {
	return id.Ms == 0 && id.Seq == 0
}

// String formats the ID as "<ms>-<seq>".
func (id StreamID) String() string {
	return strconv.FormatUint(id.Ms, 10) + "-" + strconv.FormatUint(id.Seq, 10)
}

// ParseStreamID parses a strict "<ms>-<seq>" ID.
func ParseStreamID(s string) (StreamID, error) {
	ms, seq, ok := splitID(s)
	if !ok {
		return StreamID{}, ErrStreamIDInvalid
	}
	seqNum, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return StreamID{}, ErrStreamIDInvalid
	}
	return StreamID{Ms: ms, Seq: seqNum}, nil
}

func splitID(s string) (ms uint64, seq string, ok bool) {
	i := strings.IndexByte(s, '-')
	if i <= 0 || i == len(s)-1 {
		return 0, "", false
	}
	msNum, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return 0, "", false
	}
	return msNum, s[i+1:], true
}

// IDSpec is the ID argument of XADD: fully automatic ("*"), explicit
// millisecond with automatic sequence ("<ms>-*"), or fully explicit
// ("<ms>-<seq>").
type IDSpec struct {
	Auto    bool
	AutoSeq bool
	ID      StreamID
}

// ParseIDSpec parses the XADD ID argument.
func ParseIDSpec(s string) (IDSpec, error) {
	if s == "*" {
		return IDSpec{Auto: true}, nil
	}
	ms, seq, ok := splitID(s)
	if !ok {
		return IDSpec{}, ErrStreamIDInvalid
	}
	if seq == "*" {
		return IDSpec{AutoSeq: true, ID: StreamID{Ms: ms}}, nil
	}
	seqNum, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return IDSpec{}, ErrStreamIDInvalid
	}
	return IDSpec{ID: StreamID{Ms: ms, Seq: seqNum}}, nil
}

// ParseRangeBound parses an XRANGE start or end argument. start selects
// the defaults for a bare "<ms>" bound: sequence 0 for the start of the
// range, the maximum sequence for the end.
func ParseRangeBound(s string, start bool) (StreamID, error) {
	switch s {
	case "-":
		return MinStreamID, nil
	case "+":
		return MaxStreamID, nil
	}
	if !strings.ContainsRune(s, '-') {
		ms, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return StreamID{}, ErrStreamIDInvalid
		}
		if start {
			return StreamID{Ms: ms, Seq: 0}, nil
		}
		return StreamID{Ms: ms, Seq: math.MaxUint64}, nil
	}
	return ParseStreamID(s)
}

// FieldValue is a single field/value pair of a stream entry. Pairs keep
// the order in which they were supplied.
type FieldValue struct {
	Field []byte
	Value []byte
}

// StreamEntry is one appended element of a stream.
type StreamEntry struct {
	ID     StreamID
	Fields []FieldValue
}

// Stream is an ordered, append-only sequence of entries. It tracks the
// ID of its last-appended entry for validation; the zero value of the
// tracker means "no entries yet".
type Stream struct {
	entries []StreamEntry
	last    StreamID
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{}
}

// Len returns the number of entries.
func (st *Stream) Len() int {
	return len(st.entries)
}

// LastID returns the ID of the last-appended entry, or 0-0 when the
// stream has no entries yet.
func (st *Stream) LastID() StreamID {
	return st.last
}

// Append resolves spec against the stream's last ID and appends a new
// entry. Automatic specs never fail; explicit IDs are rejected unless
// strictly greater than the last ID under (ms, seq) order. On rejection
// the stream is unmodified.
func (st *Stream) Append(spec IDSpec, fields []FieldValue, now time.Time) (StreamID, error) {
	var id StreamID
	switch {
	case spec.Auto:
		ms := uint64(now.UnixMilli())
		if ms <= st.last.Ms {
			// Clock went backwards or several entries share a
			// millisecond: stay monotonic.
			id = StreamID{Ms: st.last.Ms, Seq: st.last.Seq + 1}
		} else {
			id = StreamID{Ms: ms, Seq: 0}
		}
	case spec.AutoSeq:
		switch {
		case spec.ID.Ms < st.last.Ms:
			return StreamID{}, ErrStreamIDTooSmall
		case spec.ID.Ms == st.last.Ms:
			id = StreamID{Ms: spec.ID.Ms, Seq: st.last.Seq + 1}
		default:
			id = StreamID{Ms: spec.ID.Ms, Seq: 0}
		}
	default:
		id = spec.ID
		if id.IsZero() {
			return StreamID{}, ErrStreamIDZero
		}
		if id.Compare(st.last) <= 0 {
			return StreamID{}, ErrStreamIDTooSmall
		}
	}

	st.entries = append(st.entries, StreamEntry{ID: id, Fields: fields})
	st.last = id
	return id, nil
}

// Range returns the entries with ID in [start, end] inclusive, in
// ascending ID order. count > 0 truncates the result; count <= 0 means
// no limit. The returned slice aliases the stream's entries.
func (st *Stream) Range(start, end StreamID, count int) []StreamEntry {
	var out []StreamEntry
	for i := range st.entries {
		e := &st.entries[i]
		if e.ID.Compare(start) < 0 {
			continue
		}
		if e.ID.Compare(end) > 0 {
			break
		}
		out = append(out, *e)
		if count > 0 && len(out) == count {
			break
		}
	}
	return out
}
