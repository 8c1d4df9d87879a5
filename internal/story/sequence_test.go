package story

import (
	"errors"
	"testing"
	"time"
)

func imageItem(path string) Item {
	return Item{Kind: KindImage, Locator: path, Duration: 3 * time.Second}
}

func TestNewSequence_Empty(t *testing.T) {
	_, err := NewSequence()
	if !errors.Is(err, ErrEmptySequence) {
		t.Fatalf("NewSequence() error = %v, want ErrEmptySequence", err)
	}
}

func TestNewSequence_InvalidItem(t *testing.T) {
	_, err := NewSequence(imageItem("/a.jpg"), Item{Kind: KindImage})
	if !errors.Is(err, ErrMissingLocator) {
		t.Fatalf("NewSequence() error = %v, want ErrMissingLocator", err)
	}
}

func TestSequence_InRange(t *testing.T) {
	seq, err := NewSequence(imageItem("/a.jpg"), imageItem("/b.jpg"))
	if err != nil {
		t.Fatalf("NewSequence() error = %v", err)
	}

	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", seq.Len())
	}
	for _, i := range []int{0, 1} {
		if !seq.InRange(i) {
			t.Errorf("InRange(%d) = false, want true", i)
		}
	}
	for _, i := range []int{-1, 2, 100} {
		if seq.InRange(i) {
			t.Errorf("InRange(%d) = true, want false", i)
		}
	}
}

func TestSequence_IsolatedFromCaller(t *testing.T) {
	items := []Item{imageItem("/a.jpg")}
	seq, err := NewSequence(items...)
	if err != nil {
		t.Fatalf("NewSequence() error = %v", err)
	}

	items[0].Locator = "/mutated.jpg"
	if seq.At(0).Locator != "/a.jpg" {
		t.Errorf("At(0).Locator = %q, want /a.jpg", seq.At(0).Locator)
	}

	got := seq.Items()
	got[0].Locator = "/mutated-again.jpg"
	if seq.At(0).Locator != "/a.jpg" {
		t.Errorf("At(0).Locator = %q after Items() mutation, want /a.jpg", seq.At(0).Locator)
	}
}
