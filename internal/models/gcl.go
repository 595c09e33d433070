package models

import "encoding/json"

// GateCount is the number of traffic class gates per port.
const GateCount = 8

// MaxIntervalNs bounds GCLEntry intervals to the 32-bit wire field.
const MaxIntervalNs = 1 << 32

// GCLEntry is one gate control list record. The identifier only serves as a
// local reference for API clients and is never sent to a device.
type GCLEntry struct {
	id       int64
	gates    [GateCount]bool
	interval uint32
}

// NewGCLEntry validates and builds an entry.
func NewGCLEntry(id int64, gates []bool, intervalNs int64) (GCLEntry, error) {
	if id < 0 {
		return GCLEntry{}, invalid("entryIdentifier", "must not be negative")
	}
	if len(gates) != GateCount {
		return GCLEntry{}, invalid("gateStates", "need %d gate states, got %d", GateCount, len(gates))
	}
	if intervalNs < 0 || intervalNs >= MaxIntervalNs {
		return GCLEntry{}, invalid("timeInNs", "%d out of range [0, 2^32)", intervalNs)
	}
	e := GCLEntry{id: id, interval: uint32(intervalNs)}
	copy(e.gates[:], gates)
	return e, nil
}

func (e GCLEntry) ID() int64 { return e.id }

// Gates returns the gate states, gate 0 first.
func (e GCLEntry) Gates() [GateCount]bool { return e.gates }

func (e GCLEntry) IntervalNs() uint32 { return e.interval }

type gclEntryJSON struct {
	ID         int64  `json:"entryIdentifier"`
	GateStates []bool `json:"gateStates"`
	TimeInNs   int64  `json:"timeInNs"`
}

func (e GCLEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(gclEntryJSON{
		ID:         e.id,
		GateStates: e.gates[:],
		TimeInNs:   int64(e.interval),
	})
}

func (e *GCLEntry) UnmarshalJSON(data []byte) error {
	var raw gclEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := NewGCLEntry(raw.ID, raw.GateStates, raw.TimeInNs)
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// MaxPTPSeconds is the exclusive upper bound of the 48-bit PTP seconds field.
const MaxPTPSeconds = 1 << 48

// PTPTime is a PTP timestamp as carried by base-time objects.
type PTPTime struct {
	Seconds     uint64
	Nanoseconds uint32
}
