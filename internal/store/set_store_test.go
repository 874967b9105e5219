package store

import (
	"errors"
	"reflect"
	"testing"

	"github.com/yndnr/voltkv-go/internal/core/domain"
)

func TestSetAddCard(t *testing.T) {
	s := New()

	added, err := s.SetAdd("s", "a", "b", "a")
	if err != nil || added != 2 {
		t.Fatalf("SetAdd = %d, %v, want 2", added, err)
	}
	card, err := s.SetCard("s")
	if err != nil || card != 2 {
		t.Fatalf("SetCard = %d, %v, want 2", card, err)
	}
	if card, _ := s.SetCard("missing"); card != 0 {
		t.Fatalf("SetCard on missing key = %d, want 0", card)
	}
}

func TestSetRemoveDeletesEmptyKey(t *testing.T) {
	s := New()
	if _, err := s.SetAdd("s", "a"); err != nil {
		t.Fatal(err)
	}

	removed, err := s.SetRemove("s", "a", "b")
	if err != nil || removed != 1 {
		t.Fatalf("SetRemove = %d, %v, want 1", removed, err)
	}
	if kind := s.Kind("s"); kind != domain.KindNone {
		t.Fatalf("Kind after emptying set = %v, want none", kind)
	}
}

func TestSetIsMemberAndMove(t *testing.T) {
	s := New()
	if _, err := s.SetAdd("src", "m", "n"); err != nil {
		t.Fatal(err)
	}

	ok, err := s.SetIsMember("src", "m")
	if err != nil || !ok {
		t.Fatalf("SetIsMember(src, m) = %v, %v", ok, err)
	}

	moved, err := s.SetMove("src", "dst", "m")
	if err != nil || !moved {
		t.Fatalf("SetMove = %v, %v", moved, err)
	}
	if ok, _ := s.SetIsMember("dst", "m"); !ok {
		t.Fatal("member missing from destination after move")
	}
	if ok, _ := s.SetIsMember("src", "m"); ok {
		t.Fatal("member still in source after move")
	}

	moved, err = s.SetMove("src", "dst", "absent")
	if err != nil || moved {
		t.Fatalf("SetMove of absent member = %v, %v", moved, err)
	}
}

func TestSetAlgebraOverKeys(t *testing.T) {
	s := New()
	if _, err := s.SetAdd("a", "1", "2", "3"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetAdd("b", "2", "3", "4"); err != nil {
		t.Fatal(err)
	}

	diff, err := s.SetDiff("a", "b")
	if err != nil || !reflect.DeepEqual(diff, []string{"1"}) {
		t.Fatalf("SetDiff = %v, %v", diff, err)
	}
	inter, err := s.SetInter("a", "b")
	if err != nil || !reflect.DeepEqual(inter, []string{"2", "3"}) {
		t.Fatalf("SetInter = %v, %v", inter, err)
	}
	union, err := s.SetUnion("a", "b", "missing")
	if err != nil || !reflect.DeepEqual(union, []string{"1", "2", "3", "4"}) {
		t.Fatalf("SetUnion = %v, %v", union, err)
	}
}

func TestSetOpStore(t *testing.T) {
	s := New()
	if _, err := s.SetAdd("a", "1", "2"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SetAdd("b", "2"); err != nil {
		t.Fatal(err)
	}
	s.Set("dst", []byte("old"))

	n, err := s.SetOpStore(DiffStore, "dst", "a", "b")
	if err != nil || n != 1 {
		t.Fatalf("SetOpStore = %d, %v, want 1", n, err)
	}
	members, err := s.SetMembers("dst")
	if err != nil || !reflect.DeepEqual(members, []string{"1"}) {
		t.Fatalf("stored result = %v, %v", members, err)
	}

	// Empty results delete the destination instead of storing an empty set.
	n, err = s.SetOpStore(InterStore, "dst", "a", "missing")
	if err != nil || n != 0 {
		t.Fatalf("empty SetOpStore = %d, %v", n, err)
	}
	if kind := s.Kind("dst"); kind != domain.KindNone {
		t.Fatalf("destination kind after empty result = %v, want none", kind)
	}
}

func TestSetWrongType(t *testing.T) {
	s := New()
	s.Set("k", []byte("v"))

	if _, err := s.SetAdd("k", "m"); !errors.Is(err, domain.ErrWrongType) {
		t.Fatalf("SetAdd on string: error = %v", err)
	}
	if _, err := s.SetDiff("k"); !errors.Is(err, domain.ErrWrongType) {
		t.Fatalf("SetDiff on string: error = %v", err)
	}
}
