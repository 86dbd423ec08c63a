package tui

import (
	"strings"
	"testing"
)

func TestHistory_Navigation(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("click key")
	h.Push("inv")

	if got, ok := h.Prev(); !ok || got != "inv" {
		t.Errorf("expected inv, got %q", got)
	}
	if got, ok := h.Prev(); !ok || got != "click key" {
		t.Errorf("expected click key, got %q", got)
	}
	if got, ok := h.Prev(); !ok || got != "look" {
		t.Errorf("expected look, got %q", got)
	}
	// At the oldest entry, Prev stays put.
	if got, ok := h.Prev(); !ok || got != "look" {
		t.Errorf("expected look again, got %q", got)
	}

	if got, ok := h.Next(); !ok || got != "click key" {
		t.Errorf("expected click key, got %q", got)
	}
	if got, ok := h.Next(); !ok || got != "inv" {
		t.Errorf("expected inv, got %q", got)
	}
	// Past the newest entry, Next returns to fresh input.
	if _, ok := h.Next(); ok {
		t.Error("expected navigation to end")
	}
}

func TestHistory_SkipsConsecutiveDuplicates(t *testing.T) {
	h := NewHistory(10)
	h.Push("look")
	h.Push("look")
	h.Push("inv")

	h.Prev()
	if got, _ := h.Prev(); got != "look" {
		t.Errorf("expected look, got %q", got)
	}
	if got, ok := h.Prev(); !ok || got != "look" {
		t.Errorf("duplicate should have been collapsed, got %q", got)
	}
}

func TestHistory_MaxSize(t *testing.T) {
	h := NewHistory(2)
	h.Push("a")
	h.Push("b")
	h.Push("c")

	h.Prev() // c
	h.Prev() // b
	if got, _ := h.Prev(); got != "b" {
		t.Errorf("oldest entry should have been evicted, got %q", got)
	}
}

func TestHistory_EmptyPrev(t *testing.T) {
	h := NewHistory(10)
	if _, ok := h.Prev(); ok {
		t.Error("Prev on empty history must report false")
	}
}

func TestWordWrap(t *testing.T) {
	lines := wordWrap("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range lines {
		if len(line) > 15 {
			t.Errorf("line too long: %q", line)
		}
	}
	if strings.Join(lines, " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("words lost in wrapping: %v", lines)
	}
}

func TestWordWrap_ShortTextUntouched(t *testing.T) {
	lines := wordWrap("hello", 80)
	if len(lines) != 1 || lines[0] != "hello" {
		t.Errorf("unexpected wrap: %v", lines)
	}
}

func TestWordWrap_ZeroWidth(t *testing.T) {
	lines := wordWrap("hello world", 0)
	if len(lines) != 1 {
		t.Errorf("zero width must not wrap: %v", lines)
	}
}
