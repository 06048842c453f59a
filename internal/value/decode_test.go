// internal/value/decode_test.go
package value

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestDecode_ScalingLinearity(t *testing.T) {
	buf := []byte{0x00, 0x0A}

	d, err := Decode(buf, 0, U16, 2.0, 3.0)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if d.Scaled != 23.0 {
		t.Fatalf("expected 23, got %v", d.Scaled)
	}

	d, err = Decode(buf, 0, U16, 1.0, 0.0)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if d.Scaled != 10 {
		t.Fatalf("identity scaling: expected 10, got %v", d.Scaled)
	}
}

func TestDecode_HexNeverScaled(t *testing.T) {
	d, err := Decode([]byte{0x01, 0x02}, 0, Hex, 99, 99)
	if err != nil {
		t.Fatalf("Decode err=%v", err)
	}
	if d.String() != "0102" {
		t.Fatalf("expected 0102, got %q", d.String())
	}
}

func TestDecode_Views(t *testing.T) {
	// two registers, low word first: 0x0001 0x0002 -> 0x00020001
	buf := []byte{0x00, 0x01, 0x00, 0x02}

	tests := []struct {
		name string
		buf  []byte
		view View
		want float64
	}{
		{"u16", []byte{0xFF, 0xFE}, U16, 65534},
		{"i16", []byte{0xFF, 0xFE}, I16, -2},
		{"u32 word swap", buf, U32, 0x00020001},
		{"i32 negative", []byte{0xFF, 0xFE, 0xFF, 0xFF}, I32, -2},
		{"f32", EncodeUint32(math.Float32bits(1.5)), F32, 1.5},
	}

	for _, tt := range tests {
		d, err := Decode(tt.buf, 0, tt.view, 1, 0)
		if err != nil {
			t.Fatalf("%s: err=%v", tt.name, err)
		}
		if d.Scaled != tt.want {
			t.Fatalf("%s: got=%v want=%v", tt.name, d.Scaled, tt.want)
		}
	}
}

func TestDecode_WordSwapRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	samples := []uint32{0, 1, 0xFFFF, 0x10000, 0xDEADBEEF, math.MaxUint32}
	for i := 0; i < 1000; i++ {
		samples = append(samples, r.Uint32())
	}

	for _, x := range samples {
		d, err := Decode(EncodeUint32(x), 0, U32, 1, 0)
		if err != nil {
			t.Fatalf("x=%d err=%v", x, err)
		}
		if d.Scaled != float64(x) {
			t.Fatalf("round trip: got=%v want=%d", d.Scaled, x)
		}
	}
}

func TestEncode_Inverse(t *testing.T) {
	tests := []struct {
		view View
		x    float64
	}{
		{U16, 513},
		{I16, -300},
		{U32, 4000000000},
		{I32, -123456},
		{F32, -0.25},
	}
	for _, tt := range tests {
		b, err := Encode(tt.view, tt.x)
		if err != nil {
			t.Fatalf("%s: Encode err=%v", tt.view, err)
		}
		got, err := Raw(b, 0, tt.view)
		if err != nil {
			t.Fatalf("%s: Raw err=%v", tt.view, err)
		}
		if got != tt.x {
			t.Fatalf("%s: got=%v want=%v", tt.view, got, tt.x)
		}
	}

	if _, err := Encode(U16, -1); err == nil {
		t.Fatalf("expected range error for negative u16")
	}
}

func TestDecode_OutOfRange(t *testing.T) {
	buf := []byte{1, 2, 3}

	_, err := Decode(buf, len(buf)-1, U16, 1, 0)
	var re *RangeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RangeError, got %v", err)
	}

	if _, err := Decode(buf, 0, U32, 1, 0); err == nil {
		t.Fatalf("expected error for 4-byte view on 3-byte buffer")
	}
	if _, err := Decode(buf, -1, U16, 1, 0); err == nil {
		t.Fatalf("expected error for negative offset")
	}
}

func TestDecodeAll_Step(t *testing.T) {
	buf := []byte{0, 1, 0, 2, 0, 3, 0, 4, 9}

	if got := len(DecodeAll(buf, U16, 1, 0)); got != 4 {
		t.Fatalf("u16: expected 4 elements, got %d", got)
	}
	if got := len(DecodeAll(buf, U32, 1, 0)); got != 2 {
		t.Fatalf("u32: expected 2 elements, got %d", got)
	}
}

func TestParseView(t *testing.T) {
	for _, v := range []View{U16, I16, U32, I32, F32, Hex} {
		p, err := ParseView(v.String())
		if err != nil || p != v {
			t.Fatalf("ParseView(%q)=%v,%v", v.String(), p, err)
		}
	}
	if _, err := ParseView("f64"); err == nil {
		t.Fatalf("expected error for unknown view")
	}
}

func TestParseView_TemplateNames(t *testing.T) {
	cases := map[string]View{
		"Unsigned16bit": U16,
		"Signed16bit":   I16,
		"Unsigned32bit": U32,
		"Signed32bit":   I32,
		"Float32bit":    F32,
	}
	for name, want := range cases {
		if got, err := ParseView(name); err != nil || got != want {
			t.Fatalf("ParseView(%q)=%v,%v want %v", name, got, err, want)
		}
	}
}
