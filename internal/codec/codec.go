// Package codec converts schedule values to and from the binary forms used by
// the IEEE 802.1Qbv MIB objects. It performs no I/O.
package codec

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"tsn-cnc/internal/models"
)

const (
	// GCLRecordSize is the size of one encoded gate control list record.
	GCLRecordSize = 7

	opSetGateStates  = 0x00
	setGateStatesLen = 5

	// PTPTimeSize is the size of an encoded PTP time value.
	PTPTimeSize = 10

	// CycleTimeDenominator is written with every schedule so the numerator is in nanoseconds.
	CycleTimeDenominator = 1_000_000_000

	// maxEntryID keeps generated ids exactly representable as float64 for JSON clients.
	maxEntryID = 1 << 53
)

// EncodeGCL serializes entries as SetGateStates records:
// opcode, length, gate bitmap (gate 0 in the MSB), 32-bit big-endian interval.
func EncodeGCL(entries []models.GCLEntry) []byte {
	out := make([]byte, 0, len(entries)*GCLRecordSize)
	for _, e := range entries {
		var bitmap byte
		for i, open := range e.Gates() {
			if open {
				bitmap |= 1 << (7 - i)
			}
		}
		out = append(out, opSetGateStates, setGateStatesLen, bitmap)
		out = binary.BigEndian.AppendUint32(out, e.IntervalNs())
	}
	return out
}

// DecodeGCL parses 7-byte records; a trailing partial record is ignored.
// Opcode and length bytes are not checked, so every record is read as
// SetGateStates. Every decoded entry receives a fresh local id.
func DecodeGCL(data []byte) []models.GCLEntry {
	n := len(data) / GCLRecordSize
	out := make([]models.GCLEntry, 0, n)
	for i := 0; i < n; i++ {
		rec := data[i*GCLRecordSize : (i+1)*GCLRecordSize]
		gates := make([]bool, models.GateCount)
		for g := range gates {
			gates[g] = rec[2]&(1<<(7-g)) != 0
		}
		interval := binary.BigEndian.Uint32(rec[3:7])
		// inputs are in range by construction
		e, _ := models.NewGCLEntry(NewEntryID(), gates, int64(interval))
		out = append(out, e)
	}
	return out
}

// NewEntryID returns a random non-negative id below 2^53. Ids are only local
// references, so collisions are harmless.
func NewEntryID() int64 {
	return rand.Int64N(maxEntryID)
}

// EncodePTPTime packs t as 48-bit seconds followed by 32-bit nanoseconds, big-endian.
// Bits of Seconds above 48 are discarded.
func EncodePTPTime(t models.PTPTime) [PTPTimeSize]byte {
	var out [PTPTimeSize]byte
	binary.BigEndian.PutUint32(out[0:4], uint32(t.Seconds>>16))
	binary.BigEndian.PutUint16(out[4:6], uint16(t.Seconds))
	binary.BigEndian.PutUint32(out[6:10], t.Nanoseconds)
	return out
}

// DecodePTPTime is the inverse of EncodePTPTime.
func DecodePTPTime(data []byte) (models.PTPTime, error) {
	if len(data) != PTPTimeSize {
		return models.PTPTime{}, fmt.Errorf("ptp time needs %d bytes, got %d", PTPTimeSize, len(data))
	}
	var sec uint64
	for _, b := range data[0:6] {
		sec = sec<<8 | uint64(b)
	}
	return models.PTPTime{
		Seconds:     sec,
		Nanoseconds: binary.BigEndian.Uint32(data[6:10]),
	}, nil
}

// CycleTimeNs converts a rational cycle time in seconds to nanoseconds.
// A zero denominator yields 0.
func CycleTimeNs(numerator, denominator uint32) uint64 {
	if denominator == 0 {
		return 0
	}
	return uint64(numerator) * uint64(time.Second) / uint64(denominator)
}

// StartTimeToPTP converts UTC calendar fields to PTP epoch time. The start time
// must be valid.
func StartTimeToPTP(st models.StartTime) models.PTPTime {
	t := time.Date(st.Year, time.Month(st.Month), st.Day, st.Hour, st.Minute, st.Second, 0, time.UTC)
	return models.PTPTime{
		Seconds:     uint64(t.Unix()),
		Nanoseconds: uint32(st.Nanosecond),
	}
}

// PTPToStartTime converts PTP epoch time to UTC calendar fields. Seconds must be below 2^48.
func PTPToStartTime(p models.PTPTime) models.StartTime {
	t := time.Unix(int64(p.Seconds), 0).UTC()
	return models.StartTime{
		Year:       t.Year(),
		Month:      int(t.Month()),
		Day:        t.Day(),
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: int64(p.Nanoseconds),
	}
}
