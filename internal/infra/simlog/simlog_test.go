package simlog

import "testing"

func TestFormatKVEmpty(t *testing.T) {
	if got := formatKV(nil); got != "" {
		t.Errorf("formatKV(nil) = %q, want empty string", got)
	}
}

func TestFormatKVPairs(t *testing.T) {
	got := formatKV([]any{"day", 7, "users", 1234})
	want := " day=7 users=1234"
	if got != want {
		t.Errorf("formatKV(...) = %q, want %q", got, want)
	}
}

func TestFormatKVOddTrailingKey(t *testing.T) {
	got := formatKV([]any{"day", 7, "dangling"})
	want := " day=7 dangling"
	if got != want {
		t.Errorf("formatKV(...) = %q, want %q", got, want)
	}
}

func TestNewTagsComponent(t *testing.T) {
	l := New("engine")
	if l.component != "engine" {
		t.Errorf("component = %q, want %q", l.component, "engine")
	}
}
