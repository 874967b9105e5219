package domain

import (
	"errors"
	"testing"
	"time"
)

func TestParseIDSpec(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    IDSpec
		wantErr bool
	}{
		{
			name:  "auto",
			input: "*",
			want:  IDSpec{Auto: true},
		},
		{
			name:  "auto sequence",
			input: "5-*",
			want:  IDSpec{AutoSeq: true, ID: StreamID{Ms: 5}},
		},
		{
			name:  "explicit",
			input: "1526919030474-55",
			want:  IDSpec{ID: StreamID{Ms: 1526919030474, Seq: 55}},
		},
		{
			name:    "missing sequence",
			input:   "5-",
			wantErr: true,
		},
		{
			name:    "non numeric",
			input:   "abc-1",
			wantErr: true,
		},
		{
			name:    "negative",
			input:   "-1-1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIDSpec(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseIDSpec(%q): expected error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIDSpec(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseIDSpec(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseRangeBound(t *testing.T) {
	tests := []struct {
		name  string
		input string
		start bool
		want  StreamID
	}{
		{name: "min sentinel", input: "-", start: true, want: MinStreamID},
		{name: "max sentinel", input: "+", start: false, want: MaxStreamID},
		{name: "bare ms start", input: "7", start: true, want: StreamID{Ms: 7, Seq: 0}},
		{name: "bare ms end", input: "7", start: false, want: StreamID{Ms: 7, Seq: MaxStreamID.Seq}},
		{name: "full id", input: "7-3", start: true, want: StreamID{Ms: 7, Seq: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRangeBound(tt.input, tt.start)
			if err != nil {
				t.Fatalf("ParseRangeBound(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("ParseRangeBound(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}

	if _, err := ParseRangeBound("x", true); err == nil {
		t.Fatal("expected error for non-numeric bound")
	}
}

func TestStreamAppend_AutoWithinSameMillisecond(t *testing.T) {
	st := NewStream()
	now := time.UnixMilli(100)

	first, err := st.Append(IDSpec{Auto: true}, nil, now)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, err := st.Append(IDSpec{Auto: true}, nil, now)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	if !first.Less(second) {
		t.Fatalf("second ID %v not greater than first %v", second, first)
	}
	if second.Ms != first.Ms || second.Seq != first.Seq+1 {
		t.Fatalf("same-millisecond append did not bump sequence: %v -> %v", first, second)
	}
}

func TestStreamAppend_ExplicitValidation(t *testing.T) {
	st := NewStream()

	if _, err := st.Append(IDSpec{ID: StreamID{Ms: 5, Seq: 1}}, nil, time.Now()); err != nil {
		t.Fatalf("Append 5-1: %v", err)
	}

	tests := []struct {
		name string
		id   StreamID
		want error
	}{
		{name: "duplicate", id: StreamID{Ms: 5, Seq: 1}, want: ErrStreamIDTooSmall},
		{name: "decreasing ms", id: StreamID{Ms: 4, Seq: 9}, want: ErrStreamIDTooSmall},
		{name: "decreasing seq", id: StreamID{Ms: 5, Seq: 0}, want: ErrStreamIDTooSmall},
		{name: "zero id", id: StreamID{}, want: ErrStreamIDZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := st.Append(IDSpec{ID: tt.id}, nil, time.Now())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Append(%v) error = %v, want %v", tt.id, err, tt.want)
			}
		})
	}

	if st.Len() != 1 {
		t.Fatalf("rejected appends mutated the stream: len = %d", st.Len())
	}
	if st.LastID() != (StreamID{Ms: 5, Seq: 1}) {
		t.Fatalf("LastID = %v, want 5-1", st.LastID())
	}
}

func TestStreamAppend_AutoSeq(t *testing.T) {
	st := NewStream()

	id, err := st.Append(IDSpec{AutoSeq: true, ID: StreamID{Ms: 5}}, nil, time.Now())
	if err != nil {
		t.Fatalf("Append 5-*: %v", err)
	}
	if id != (StreamID{Ms: 5, Seq: 0}) {
		t.Fatalf("first 5-* = %v, want 5-0", id)
	}

	id, err = st.Append(IDSpec{AutoSeq: true, ID: StreamID{Ms: 5}}, nil, time.Now())
	if err != nil {
		t.Fatalf("Append 5-*: %v", err)
	}
	if id != (StreamID{Ms: 5, Seq: 1}) {
		t.Fatalf("second 5-* = %v, want 5-1", id)
	}

	if _, err := st.Append(IDSpec{AutoSeq: true, ID: StreamID{Ms: 4}}, nil, time.Now()); !errors.Is(err, ErrStreamIDTooSmall) {
		t.Fatalf("4-* after 5-1: error = %v, want %v", err, ErrStreamIDTooSmall)
	}
}

func TestStreamRange(t *testing.T) {
	st := NewStream()
	for i := uint64(1); i <= 5; i++ {
		fields := []FieldValue{{Field: []byte("n"), Value: []byte{byte('0' + i)}}}
		if _, err := st.Append(IDSpec{ID: StreamID{Ms: i, Seq: 0}}, fields, time.Now()); err != nil {
			t.Fatalf("Append %d-0: %v", i, err)
		}
	}

	all := st.Range(MinStreamID, MaxStreamID, 0)
	if len(all) != 5 {
		t.Fatalf("full range returned %d entries, want 5", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].ID.Less(all[i].ID) {
			t.Fatalf("entries out of order at %d: %v >= %v", i, all[i-1].ID, all[i].ID)
		}
	}

	mid := st.Range(StreamID{Ms: 2}, StreamID{Ms: 4, Seq: MaxStreamID.Seq}, 0)
	if len(mid) != 3 {
		t.Fatalf("range [2,4] returned %d entries, want 3", len(mid))
	}

	limited := st.Range(MinStreamID, MaxStreamID, 2)
	if len(limited) != 2 {
		t.Fatalf("count-limited range returned %d entries, want 2", len(limited))
	}
}
