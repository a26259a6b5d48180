package conv

import (
	"math"
	"testing"
)

func TestAppend(t *testing.T) {
	cases := []struct {
		got, want string
	}{
		{string(AppendUint(nil, 0)), "0"},
		{string(AppendUint(nil, 12_336_000)), "12336000"},
		{string(AppendUint(nil, math.MaxUint64)), "18446744073709551615"},
		{string(AppendInt(nil, -42)), "-42"},
		{string(AppendInt(nil, math.MinInt64)), "-9223372036854775808"},
		{string(AppendHex32(nil, 0x60000000)), "60000000"},
		{string(AppendHex32(nil, 0x3000033)), "03000033"},
		{string(AppendHex32([]byte("0x"), 0xC0000000)), "0xC0000000"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Fatalf("got %q, want %q", c.got, c.want)
		}
	}
}
