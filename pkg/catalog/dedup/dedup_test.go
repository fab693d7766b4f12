package dedup

import "testing"

func TestGuardSeen(t *testing.T) {
	g := NewGuard([]string{"The Sleepy Moon", "The Brave Goat"})

	if !g.Seen("The Sleepy Moon") {
		t.Error("existing title not seen")
	}
	if g.Seen("A New Story") {
		t.Error("unknown title reported as seen")
	}
}

func TestGuardExactMatchOnly(t *testing.T) {
	g := NewGuard([]string{"The Sleepy Moon"})

	// Strict title identity: casing and whitespace variants are
	// distinct stories.
	for _, title := range []string{"the sleepy moon", "The Sleepy Moon ", "The  Sleepy Moon"} {
		if g.Seen(title) {
			t.Errorf("%q should not match", title)
		}
	}
}

func TestGuardAdd(t *testing.T) {
	g := NewGuard(nil)

	if g.Seen("New Story") {
		t.Error("empty guard saw a title")
	}
	g.Add("New Story")
	if !g.Seen("New Story") {
		t.Error("added title not seen")
	}
	if g.Len() != 1 {
		t.Errorf("len = %d", g.Len())
	}
}
