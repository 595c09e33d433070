package models

import (
	"encoding/json"
	"slices"

	"tsn-cnc/internal/portname"
)

// Neighbor is one LLDP remote table row as seen from a local port.
type Neighbor struct {
	SysName   string `json:"sysName"`
	PortID    string `json:"portId"`
	LocalPort int    `json:"localPort"`
}

// MarshalJSON adds a short display label derived from the remote port id.
func (n Neighbor) MarshalJSON() ([]byte, error) {
	type plain Neighbor
	return json.Marshal(struct {
		plain
		PortLabel string `json:"portLabel"`
	}{plain: plain(n), PortLabel: portname.Normalize(n.PortID)})
}

// SwitchSpec carries the fields of a Switch.
type SwitchSpec struct {
	ID        string
	Address   string
	UDPPort   int
	SysName   string
	Neighbors []Neighbor
	Security  Security
	Ports     []Port
	Reachable bool
}

// Switch is an immutable snapshot of one managed switch. Accessors hand out
// copies, so a Switch can be shared between goroutines without locking.
type Switch struct {
	spec SwitchSpec
}

func NewSwitch(spec SwitchSpec) (Switch, error) {
	if spec.ID == "" {
		return Switch{}, invalid("switchIdentifier", "must not be empty")
	}
	if !IsIPv4(spec.Address) {
		return Switch{}, invalid("address", "%q is not a dotted-quad IPv4 address", spec.Address)
	}
	if spec.UDPPort <= 0 || spec.UDPPort > 65535 {
		return Switch{}, invalid("port", "%d out of range", spec.UDPPort)
	}
	seen := make(map[int]struct{}, len(spec.Ports))
	for _, p := range spec.Ports {
		if p.SwitchID() != spec.ID {
			return Switch{}, invalid("tsnPorts", "port %d belongs to switch %q", p.Number(), p.SwitchID())
		}
		if _, dup := seen[p.Number()]; dup {
			return Switch{}, invalid("tsnPorts", "port %d listed twice", p.Number())
		}
		seen[p.Number()] = struct{}{}
	}
	spec.Neighbors = cloneOrEmpty(spec.Neighbors)
	spec.Ports = cloneOrEmpty(spec.Ports)
	return Switch{spec: spec}, nil
}

// UnreachableSwitch builds the placeholder stored for a switch whose fetch failed.
func UnreachableSwitch(c Credential) Switch {
	return Switch{spec: SwitchSpec{
		ID:        c.ID,
		Address:   c.Address,
		UDPPort:   c.UDPPort,
		Neighbors: []Neighbor{},
		Security:  c.Security,
		Ports:     []Port{},
		Reachable: false,
	}}
}

func (s Switch) ID() string         { return s.spec.ID }
func (s Switch) Address() string    { return s.spec.Address }
func (s Switch) UDPPort() int       { return s.spec.UDPPort }
func (s Switch) SysName() string    { return s.spec.SysName }
func (s Switch) Security() Security { return s.spec.Security }
func (s Switch) Reachable() bool    { return s.spec.Reachable }

func (s Switch) Neighbors() []Neighbor { return slices.Clone(s.spec.Neighbors) }
func (s Switch) Ports() []Port         { return slices.Clone(s.spec.Ports) }

// Port returns the TSN port with the given number.
func (s Switch) Port(number int) (Port, bool) {
	for _, p := range s.spec.Ports {
		if p.Number() == number {
			return p, true
		}
	}
	return Port{}, false
}

// TSNPortNumbers lists the numbers of the switch's TSN ports in stored order.
func (s Switch) TSNPortNumbers() []int {
	out := make([]int, len(s.spec.Ports))
	for i, p := range s.spec.Ports {
		out[i] = p.Number()
	}
	return out
}

// Spec returns an independent copy of the switch's fields.
func (s Switch) Spec() SwitchSpec {
	spec := s.spec
	spec.Neighbors = slices.Clone(s.spec.Neighbors)
	spec.Ports = slices.Clone(s.spec.Ports)
	return spec
}

// WithPort returns a copy of s in which the port numbered like p is replaced by p.
func (s Switch) WithPort(p Port) (Switch, error) {
	if p.SwitchID() != s.spec.ID {
		return Switch{}, invalid("switchIdentifier", "port belongs to %q, not %q", p.SwitchID(), s.spec.ID)
	}
	spec := s.Spec()
	for i := range spec.Ports {
		if spec.Ports[i].Number() == p.Number() {
			spec.Ports[i] = p
			return NewSwitch(spec)
		}
	}
	return Switch{}, invalid("portNumber", "switch %q has no TSN port %d", s.spec.ID, p.Number())
}

// Credential reconstructs the credential the switch was fetched with.
func (s Switch) Credential() Credential {
	return Credential{
		ID:       s.spec.ID,
		Address:  s.spec.Address,
		UDPPort:  s.spec.UDPPort,
		Security: s.spec.Security,
		TSNPorts: s.TSNPortNumbers(),
	}
}

type switchJSON struct {
	SwitchIdentifier string     `json:"switchIdentifier"`
	Address          string     `json:"address"`
	SysName          string     `json:"sysname"`
	Neighbors        []Neighbor `json:"neighbors"`
	TSNPorts         []Port     `json:"tsnPorts"`
	Reachable        bool       `json:"reachable"`
}

// MarshalJSON renders the outward snapshot. SNMP port and secrets are omitted.
func (s Switch) MarshalJSON() ([]byte, error) {
	return json.Marshal(switchJSON{
		SwitchIdentifier: s.spec.ID,
		Address:          s.spec.Address,
		SysName:          s.spec.SysName,
		Neighbors:        cloneOrEmpty(s.spec.Neighbors),
		TSNPorts:         cloneOrEmpty(s.spec.Ports),
		Reachable:        s.spec.Reachable,
	})
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
