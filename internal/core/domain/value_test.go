package domain

import (
	"reflect"
	"testing"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNone, "none"},
		{KindString, "string"},
		{KindList, "list"},
		{KindStream, "stream"},
		{KindSet, "set"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestListPushOrder(t *testing.T) {
	l := NewList()
	l.PushBack([]byte("a"), []byte("b"))
	l.PushFront([]byte("c"), []byte("d"))

	got := l.Range(0, -1)
	want := [][]byte{[]byte("d"), []byte("c"), []byte("a"), []byte("b")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Range(0, -1) = %q, want %q", got, want)
	}
}

func TestListRange(t *testing.T) {
	l := NewList()
	l.PushBack([]byte("a"), []byte("b"), []byte("c"), []byte("d"))

	tests := []struct {
		name        string
		start, stop int
		want        []string
	}{
		{name: "full", start: 0, stop: -1, want: []string{"a", "b", "c", "d"}},
		{name: "negative start", start: -2, stop: -1, want: []string{"c", "d"}},
		{name: "clamped stop", start: 1, stop: 100, want: []string{"b", "c", "d"}},
		{name: "clamped start", start: -100, stop: 0, want: []string{"a"}},
		{name: "inverted", start: 3, stop: 1, want: nil},
		{name: "start past end", start: 10, stop: 20, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l.Range(tt.start, tt.stop)
			if len(got) != len(tt.want) {
				t.Fatalf("Range(%d, %d) returned %d elements, want %d", tt.start, tt.stop, len(got), len(tt.want))
			}
			for i := range got {
				if string(got[i]) != tt.want[i] {
					t.Fatalf("Range(%d, %d)[%d] = %q, want %q", tt.start, tt.stop, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestListPopFront(t *testing.T) {
	l := NewList()
	l.PushBack([]byte("a"), []byte("b"), []byte("c"))

	popped := l.PopFront(2)
	if len(popped) != 2 || string(popped[0]) != "a" || string(popped[1]) != "b" {
		t.Fatalf("PopFront(2) = %q", popped)
	}
	if l.Len() != 1 {
		t.Fatalf("Len after pop = %d, want 1", l.Len())
	}

	popped = l.PopFront(5)
	if len(popped) != 1 || string(popped[0]) != "c" {
		t.Fatalf("PopFront(5) on short list = %q", popped)
	}
	if l.Len() != 0 {
		t.Fatalf("Len after draining = %d, want 0", l.Len())
	}
}

func TestSetOrderAndOps(t *testing.T) {
	s := NewSet()
	for _, m := range []string{"b", "a", "c", "a"} {
		s.Add(m)
	}

	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	if got := s.Members(); !reflect.DeepEqual(got, []string{"b", "a", "c"}) {
		t.Fatalf("Members = %v, want insertion order [b a c]", got)
	}

	if !s.Remove("a") {
		t.Fatal("Remove(a) = false, want true")
	}
	if s.Remove("a") {
		t.Fatal("second Remove(a) = true, want false")
	}
	if got := s.Members(); !reflect.DeepEqual(got, []string{"b", "c"}) {
		t.Fatalf("Members after remove = %v", got)
	}
}

func TestSetAlgebra(t *testing.T) {
	a := NewSet()
	b := NewSet()
	for _, m := range []string{"1", "2", "3"} {
		a.Add(m)
	}
	for _, m := range []string{"2", "3", "4"} {
		b.Add(m)
	}

	if got := a.Diff(b).Members(); !reflect.DeepEqual(got, []string{"1"}) {
		t.Fatalf("Diff = %v, want [1]", got)
	}
	if got := a.Inter(b).Members(); !reflect.DeepEqual(got, []string{"2", "3"}) {
		t.Fatalf("Inter = %v, want [2 3]", got)
	}
	if got := a.Union(b).Members(); !reflect.DeepEqual(got, []string{"1", "2", "3", "4"}) {
		t.Fatalf("Union = %v, want [1 2 3 4]", got)
	}
	if got := a.Diff(nil).Members(); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Fatalf("Diff(nil) = %v, want all of a", got)
	}
}

func TestReplyError(t *testing.T) {
	err := WrongArity("get")
	if err.Error() != "ERR wrong number of arguments for 'get' command" {
		t.Fatalf("Error() = %q", err.Error())
	}
	if !IsReplyError(err) {
		t.Fatal("IsReplyError = false")
	}
	if ErrWrongType.Kind != KindWrongType {
		t.Fatalf("ErrWrongType kind = %q", ErrWrongType.Kind)
	}
}
