package utils

import "testing"

func TestBuildUserKey(t *testing.T) {
	a := BuildUserKey("홍길동", "1990-06-02", "male", "14")
	b := BuildUserKey("홍길동", "1990-06-02", "male", "14")
	if a != b {
		t.Fatalf("key not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("key length = %d, want 64 hex chars", len(a))
	}
	if c := BuildUserKey("홍길동", "1990-06-02", "female", "14"); c == a {
		t.Fatalf("different parts produced the same key")
	}
	// The separator keeps adjacent parts from bleeding into each other.
	if BuildUserKey("ab", "c") == BuildUserKey("a", "bc") {
		t.Fatalf("part boundaries are ambiguous")
	}
}

func TestHashText(t *testing.T) {
	a := HashText("용이 하늘로 올라가는 꿈")
	if len(a) != 16 {
		t.Fatalf("digest length = %d, want 16", len(a))
	}
	if a != HashText("용이 하늘로 올라가는 꿈") {
		t.Fatalf("digest not deterministic")
	}
	if a == HashText("물에 빠지는 꿈") {
		t.Fatalf("different texts produced the same digest")
	}
}
