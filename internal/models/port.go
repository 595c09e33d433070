package models

import (
	"encoding/json"
	"slices"
	"time"
)

const (
	MinStartYear = 1970
	// MaxStartYear keeps every valid start time inside the 48-bit PTP seconds range.
	MaxStartYear = 8921373
)

// StartTime is a schedule base time in UTC calendar fields.
type StartTime struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int64
}

func (t StartTime) Validate() error {
	switch {
	case t.Year < MinStartYear || t.Year > MaxStartYear:
		return invalid("startYear", "must be between %d and %d", MinStartYear, MaxStartYear)
	case t.Month < 1 || t.Month > 12:
		return invalid("startMonth", "must be between 1 and 12")
	case t.Day < 1 || t.Day > daysIn(t.Year, t.Month):
		return invalid("startDay", "%d is not a day of %04d-%02d", t.Day, t.Year, t.Month)
	case t.Hour < 0 || t.Hour > 23:
		return invalid("startHour", "must be between 0 and 23")
	case t.Minute < 0 || t.Minute > 59:
		return invalid("startMinute", "must be between 0 and 59")
	case t.Second < 0 || t.Second > 59:
		return invalid("startSecond", "must be between 0 and 59")
	case t.Nanosecond < 0 || t.Nanosecond >= int64(time.Second):
		return invalid("startNanosecond", "must be between 0 and 999999999")
	}
	return nil
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PortSpec carries the fields of a Port. It is the mutable form: edit a
// PortSpec and pass it to NewPort to obtain an updated Port.
type PortSpec struct {
	Number               int
	SwitchID             string
	CycleTimeNs          int64
	CycleTimeExtensionNs int64
	Start                StartTime
	GateControlList      []GCLEntry
	GateEnabled          bool
}

// Port is the TSN schedule of one switch port.
type Port struct {
	spec PortSpec
}

func NewPort(spec PortSpec) (Port, error) {
	switch {
	case spec.Number <= 0:
		return Port{}, invalid("portNumber", "must be greater than 0")
	case spec.SwitchID == "":
		return Port{}, invalid("switchIdentifier", "must not be empty")
	case spec.CycleTimeNs < 0:
		return Port{}, invalid("cycleTime", "must not be negative")
	case spec.CycleTimeExtensionNs < 0:
		return Port{}, invalid("cycleTimeExtension", "must not be negative")
	}
	if err := spec.Start.Validate(); err != nil {
		return Port{}, err
	}
	spec.GateControlList = slices.Clone(spec.GateControlList)
	if spec.GateControlList == nil {
		spec.GateControlList = []GCLEntry{}
	}
	return Port{spec: spec}, nil
}

func (p Port) Number() int                 { return p.spec.Number }
func (p Port) SwitchID() string            { return p.spec.SwitchID }
func (p Port) CycleTimeNs() int64          { return p.spec.CycleTimeNs }
func (p Port) CycleTimeExtensionNs() int64 { return p.spec.CycleTimeExtensionNs }
func (p Port) Start() StartTime            { return p.spec.Start }
func (p Port) GateEnabled() bool           { return p.spec.GateEnabled }

// GateControlList returns a copy of the port's gate control list.
func (p Port) GateControlList() []GCLEntry {
	return slices.Clone(p.spec.GateControlList)
}

// Spec returns an independent copy of the port's fields.
func (p Port) Spec() PortSpec {
	spec := p.spec
	spec.GateControlList = slices.Clone(p.spec.GateControlList)
	return spec
}

type portJSON struct {
	PortNumber         int        `json:"portNumber"`
	SwitchIdentifier   string     `json:"switchIdentifier"`
	CycleTime          int64      `json:"cycleTime"`
	CycleTimeExtension int64      `json:"cycleTimeExtension"`
	StartYear          int        `json:"startYear"`
	StartMonth         int        `json:"startMonth"`
	StartDay           int        `json:"startDay"`
	StartHour          int        `json:"startHour"`
	StartMinute        int        `json:"startMinute"`
	StartSecond        int        `json:"startSecond"`
	StartNanosecond    int64      `json:"startNanosecond"`
	GateControlList    []GCLEntry `json:"gateControlList"`
	GateEnabled        bool       `json:"gateEnabled"`
}

func (p Port) MarshalJSON() ([]byte, error) {
	s := p.spec
	gcl := s.GateControlList
	if gcl == nil {
		gcl = []GCLEntry{}
	}
	return json.Marshal(portJSON{
		PortNumber:         s.Number,
		SwitchIdentifier:   s.SwitchID,
		CycleTime:          s.CycleTimeNs,
		CycleTimeExtension: s.CycleTimeExtensionNs,
		StartYear:          s.Start.Year,
		StartMonth:         s.Start.Month,
		StartDay:           s.Start.Day,
		StartHour:          s.Start.Hour,
		StartMinute:        s.Start.Minute,
		StartSecond:        s.Start.Second,
		StartNanosecond:    s.Start.Nanosecond,
		GateControlList:    gcl,
		GateEnabled:        s.GateEnabled,
	})
}

func (p *Port) UnmarshalJSON(data []byte) error {
	var raw portJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.GateControlList == nil {
		return invalid("gateControlList", "must be present")
	}
	parsed, err := NewPort(PortSpec{
		Number:               raw.PortNumber,
		SwitchID:             raw.SwitchIdentifier,
		CycleTimeNs:          raw.CycleTime,
		CycleTimeExtensionNs: raw.CycleTimeExtension,
		Start: StartTime{
			Year:       raw.StartYear,
			Month:      raw.StartMonth,
			Day:        raw.StartDay,
			Hour:       raw.StartHour,
			Minute:     raw.StartMinute,
			Second:     raw.StartSecond,
			Nanosecond: raw.StartNanosecond,
		},
		GateControlList: raw.GateControlList,
		GateEnabled:     raw.GateEnabled,
	})
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
