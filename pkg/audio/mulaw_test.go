package audio

import "testing"

func TestDecodeMulawSample(t *testing.T) {
	cases := []struct {
		name string
		in   byte
		want int16
	}{
		{"positive zero", 0xFF, 0},
		{"negative zero", 0x7F, 0},
		{"max positive", 0x80, 32124},
		{"max negative", 0x00, -32124},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecodeMulawSample(tc.in); got != tc.want {
				t.Errorf("DecodeMulawSample(%#x) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestEncodeMulawSample(t *testing.T) {
	if got := EncodeMulawSample(0); got != 0xFF {
		t.Errorf("EncodeMulawSample(0) = %#x, want 0xff", got)
	}
	if got := EncodeMulawSample(32767); got != 0x80 {
		t.Errorf("EncodeMulawSample(32767) = %#x, want 0x80", got)
	}
	if got := EncodeMulawSample(-32768); got != 0x00 {
		t.Errorf("EncodeMulawSample(-32768) = %#x, want 0x00", got)
	}
}

func TestMulawRoundTrip(t *testing.T) {
	// Every μ-law code must survive decode→encode unchanged, except
	// negative zero which folds onto positive zero.
	for i := 0; i < 256; i++ {
		u := byte(i)
		got := EncodeMulawSample(DecodeMulawSample(u))
		want := u
		if u == 0x7F {
			want = 0xFF
		}
		if got != want {
			t.Errorf("round trip %#x = %#x, want %#x", u, got, want)
		}
	}
}

func TestDecodeMulawLength(t *testing.T) {
	in := make([]byte, 160) // one 20ms telephony frame
	out := DecodeMulaw(in)
	if len(out) != 320 {
		t.Errorf("decoded length = %d, want 320", len(out))
	}
}

func TestEncodeMulawIgnoresTrailingByte(t *testing.T) {
	in := []byte{0x00, 0x00, 0xFF}
	if got := EncodeMulaw(in); len(got) != 1 {
		t.Errorf("encoded length = %d, want 1", len(got))
	}
}
