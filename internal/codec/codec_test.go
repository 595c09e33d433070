package codec

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"tsn-cnc/internal/models"
)

func mustEntry(t *testing.T, gates []bool, interval int64) models.GCLEntry {
	t.Helper()
	e, err := models.NewGCLEntry(1, gates, interval)
	if err != nil {
		t.Fatalf("NewGCLEntry: %v", err)
	}
	return e
}

func TestEncodeGCLLayout(t *testing.T) {
	entries := []models.GCLEntry{
		mustEntry(t, []bool{true, false, false, false, false, false, false, true}, 250000),
		mustEntry(t, []bool{false, true, true, false, false, false, false, false}, 0xDEADBEEF),
	}
	want := []byte{
		0x00, 0x05, 0x81, 0x00, 0x03, 0xD0, 0x90,
		0x00, 0x05, 0x60, 0xDE, 0xAD, 0xBE, 0xEF,
	}
	if got := EncodeGCL(entries); !bytes.Equal(got, want) {
		t.Fatalf("EncodeGCL = % X, want % X", got, want)
	}
	if got := EncodeGCL(nil); len(got) != 0 {
		t.Fatalf("empty list must encode to no bytes, got % X", got)
	}
}

func TestDecodeGCLDropsPartialRecord(t *testing.T) {
	data := []byte{
		0x00, 0x05, 0x80, 0x00, 0x00, 0x00, 0x64,
		0x00, 0x05, 0xFF,
	}
	entries := DecodeGCL(data)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	gates := entries[0].Gates()
	if !gates[0] {
		t.Fatalf("gate 0 must be open")
	}
	for i := 1; i < models.GateCount; i++ {
		if gates[i] {
			t.Fatalf("gate %d must be closed", i)
		}
	}
	if entries[0].IntervalNs() != 100 {
		t.Fatalf("interval = %d, want 100", entries[0].IntervalNs())
	}
	if entries[0].ID() < 0 || entries[0].ID() >= maxEntryID {
		t.Fatalf("id %d out of range", entries[0].ID())
	}
}

func TestGCLRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	edge := []int64{0, 1, 1<<32 - 1}
	for i := 0; i < 500; i++ {
		var entries []models.GCLEntry
		for j := 0; j < 1+r.IntN(8); j++ {
			gates := make([]bool, models.GateCount)
			for g := range gates {
				gates[g] = r.IntN(2) == 1
			}
			interval := r.Int64N(1 << 32)
			if j < len(edge) && i%7 == 0 {
				interval = edge[j]
			}
			entries = append(entries, mustEntry(t, gates, interval))
		}
		decoded := DecodeGCL(EncodeGCL(entries))
		if len(decoded) != len(entries) {
			t.Fatalf("decoded %d entries, want %d", len(decoded), len(entries))
		}
		for k := range entries {
			if decoded[k].Gates() != entries[k].Gates() {
				t.Fatalf("entry %d gates = %v, want %v", k, decoded[k].Gates(), entries[k].Gates())
			}
			if decoded[k].IntervalNs() != entries[k].IntervalNs() {
				t.Fatalf("entry %d interval = %d, want %d", k, decoded[k].IntervalNs(), entries[k].IntervalNs())
			}
		}
	}
}

func TestEncodePTPTimeLayout(t *testing.T) {
	got := EncodePTPTime(models.PTPTime{Seconds: 0x0123456789AB, Nanoseconds: 0x3B9AC9FF})
	want := [PTPTimeSize]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xAB, 0x3B, 0x9A, 0xC9, 0xFF}
	if got != want {
		t.Fatalf("EncodePTPTime = % X, want % X", got, want)
	}
}

func TestPTPTimeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 4))
	cases := []models.PTPTime{
		{},
		{Seconds: models.MaxPTPSeconds - 1, Nanoseconds: 1<<32 - 1},
		{Seconds: 1, Nanoseconds: 1},
	}
	for i := 0; i < 500; i++ {
		cases = append(cases, models.PTPTime{
			Seconds:     r.Uint64N(models.MaxPTPSeconds),
			Nanoseconds: r.Uint32(),
		})
	}
	for _, want := range cases {
		enc := EncodePTPTime(want)
		got, err := DecodePTPTime(enc[:])
		if err != nil {
			t.Fatalf("DecodePTPTime: %v", err)
		}
		if got != want {
			t.Fatalf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestDecodePTPTimeRejectsWrongLength(t *testing.T) {
	for _, n := range []int{0, 9, 11, 16} {
		if _, err := DecodePTPTime(make([]byte, n)); err == nil {
			t.Fatalf("expected error for %d byte input", n)
		}
	}
}

func TestCycleTimeNs(t *testing.T) {
	tests := []struct {
		name     string
		num, den uint32
		want     uint64
	}{
		{name: "zero denominator", num: 5, den: 0, want: 0},
		{name: "nanosecond denominator", num: 500000, den: 1_000_000_000, want: 500000},
		{name: "microsecond denominator", num: 250, den: 1_000_000, want: 250000},
		{name: "whole seconds", num: 2, den: 1, want: 2_000_000_000},
		{name: "largest numerator", num: 1<<32 - 1, den: 1, want: (1<<32 - 1) * 1_000_000_000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CycleTimeNs(tt.num, tt.den); got != tt.want {
				t.Fatalf("CycleTimeNs(%d, %d) = %d, want %d", tt.num, tt.den, got, tt.want)
			}
		})
	}
}

func TestStartTimeConversion(t *testing.T) {
	tests := []struct {
		name  string
		start models.StartTime
		ptp   models.PTPTime
	}{
		{
			name:  "epoch",
			start: models.StartTime{Year: 1970, Month: 1, Day: 1},
			ptp:   models.PTPTime{},
		},
		{
			name:  "leap day",
			start: models.StartTime{Year: 2024, Month: 2, Day: 29, Hour: 12, Minute: 30, Second: 15, Nanosecond: 500},
			ptp:   models.PTPTime{Seconds: 1709209815, Nanoseconds: 500},
		},
		{
			name:  "last supported year",
			start: models.StartTime{Year: 8921373, Month: 1, Day: 1},
			ptp:   models.PTPTime{Seconds: 281469172406400},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.start.Validate(); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got := StartTimeToPTP(tt.start); got != tt.ptp {
				t.Fatalf("StartTimeToPTP = %+v, want %+v", got, tt.ptp)
			}
			if got := PTPToStartTime(tt.ptp); got != tt.start {
				t.Fatalf("PTPToStartTime = %+v, want %+v", got, tt.start)
			}
		})
	}
}
