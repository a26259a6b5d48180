package mathx

import "testing"

func TestClamp(t *testing.T) {
	if Clamp(-5, 0, 10) != 0 {
		t.Fatal("clamp low failed")
	}
	if Clamp(15, 10, 0) != 10 {
		t.Fatal("clamp with swapped bounds failed")
	}
	if Clamp(uint32(7), 1, 128) != 7 {
		t.Fatal("clamp mid failed")
	}
}

func TestAbsDiffUnsigned(t *testing.T) {
	if AbsDiff(uint64(3), 10) != 7 || AbsDiff(uint64(10), 3) != 7 {
		t.Fatal("AbsDiff failed")
	}
}

func TestIntDiv(t *testing.T) {
	if RoundDiv(uint32(7), 2) != 4 || RoundDiv(uint32(5), 4) != 1 {
		t.Fatal("RoundDiv failed")
	}
	if RoundDiv(uint32(1), 0) != 0 {
		t.Fatal("division by zero should return 0")
	}
}

func TestPow2(t *testing.T) {
	for _, v := range []uint32{1, 2, 32, 1 << 26, 1 << 31} {
		if !IsPow2(v) {
			t.Fatalf("IsPow2(%d) = false", v)
		}
	}
	for _, v := range []uint32{0, 3, 100, 48, 1<<26 + 1} {
		if IsPow2(v) {
			t.Fatalf("IsPow2(%d) = true", v)
		}
	}
	if Log2(uint32(32)) != 5 || Log2(uint32(64<<20)) != 26 || Log2(uint32(1)) != 0 {
		t.Fatal("Log2 failed")
	}
}
