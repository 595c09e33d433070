// Package comms runs the device conversations needed to read and configure a
// TSN switch. All of them go through one Manager, which lets a single
// conversation run at a time.
package comms

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sync"
	"time"

	"github.com/gosnmp/gosnmp"

	"tsn-cnc/internal/codec"
	"tsn-cnc/internal/models"
	"tsn-cnc/internal/oid"
	"tsn-cnc/internal/transport"
)

type Manager struct {
	mu     sync.Mutex
	client transport.Client
	logger *slog.Logger
}

func New(client transport.Client, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{client: client, logger: logger}
}

// FetchSwitch reads the full state of the switch described by c. Any failed
// exchange aborts the fetch and no Switch is returned.
func (m *Manager) FetchSwitch(c models.Credential) (models.Switch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetch(c)
}

// RefreshSwitch re-reads s using its own port numbers and security settings.
func (m *Manager) RefreshSwitch(s models.Switch) (models.Switch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetch(s.Credential())
}

func (m *Manager) fetch(c models.Credential) (models.Switch, error) {
	start := time.Now()
	target := transport.TargetFor(c)

	numbers := models.NormalizePorts(c.TSNPorts)
	if slices.Contains(numbers, 0) {
		return models.Switch{}, fmt.Errorf("fetch %s: %w", c.ID, &models.ValidationError{
			Field:  "tsnPortsString",
			Reason: "port 0 has no TSN schedule",
		})
	}

	pdu, err := m.client.Get(target, oid.SysName)
	if err != nil {
		return models.Switch{}, fmt.Errorf("fetch %s: sysName: %w", c.ID, err)
	}
	sysName, err := transport.String(pdu)
	if err != nil {
		return models.Switch{}, fmt.Errorf("fetch %s: sysName: %w", c.ID, err)
	}

	neighbors, err := m.neighbors(target)
	if err != nil {
		return models.Switch{}, fmt.Errorf("fetch %s: lldp: %w", c.ID, err)
	}

	ports := make([]models.Port, 0, len(numbers))
	for _, n := range numbers {
		p, err := m.readPort(target, c.ID, n)
		if err != nil {
			return models.Switch{}, fmt.Errorf("fetch %s: port %d: %w", c.ID, n, err)
		}
		ports = append(ports, p)
	}

	s, err := models.NewSwitch(models.SwitchSpec{
		ID:        c.ID,
		Address:   c.Address,
		UDPPort:   c.UDPPort,
		SysName:   sysName,
		Neighbors: neighbors,
		Security:  c.Security,
		Ports:     ports,
		Reachable: true,
	})
	if err != nil {
		return models.Switch{}, fmt.Errorf("fetch %s: %w", c.ID, err)
	}
	m.logger.Info("switch fetched",
		"switch", c.ID,
		"sysname", sysName,
		"neighbors", len(neighbors),
		"ports", len(ports),
		"duration", time.Since(start))
	return s, nil
}

func (m *Manager) neighbors(target transport.Target) ([]models.Neighbor, error) {
	rows, err := m.client.Table(target, []string{oid.LLDPRemSysName, oid.LLDPRemPortID})
	if err != nil {
		return nil, err
	}
	out := make([]models.Neighbor, 0, len(rows))
	for _, row := range rows {
		local, err := oid.LLDPLocalPort(row.Index)
		if err != nil {
			return nil, transport.Malformed(row.Values[0], "lldp index %q: %v", row.Index, err)
		}
		sysName, err := transport.String(row.Values[0])
		if err != nil {
			return nil, err
		}
		portID, err := transport.String(row.Values[1])
		if err != nil {
			return nil, err
		}
		out = append(out, models.Neighbor{SysName: sysName, PortID: portID, LocalPort: local})
	}
	slices.SortStableFunc(out, func(a, b models.Neighbor) int { return a.LocalPort - b.LocalPort })
	return out, nil
}

func (m *Manager) readPort(target transport.Target, switchID string, n int) (models.Port, error) {
	num, err := m.getUint(target, oid.OperCycleTimeNumerator, n)
	if err != nil {
		return models.Port{}, err
	}
	den, err := m.getUint(target, oid.OperCycleTimeDenominator, n)
	if err != nil {
		return models.Port{}, err
	}
	ext, err := m.getUint(target, oid.OperCycleTimeExtension, n)
	if err != nil {
		return models.Port{}, err
	}

	pdu, err := m.get(target, oid.OperBaseTime, n)
	if err != nil {
		return models.Port{}, err
	}
	raw, err := transport.Bytes(pdu)
	if err != nil {
		return models.Port{}, err
	}
	base, err := codec.DecodePTPTime(raw)
	if err != nil {
		return models.Port{}, transport.Malformed(pdu, "%v", err)
	}
	if base.Nanoseconds >= uint32(time.Second) {
		return models.Port{}, transport.Malformed(pdu, "base time nanoseconds %d out of range", base.Nanoseconds)
	}

	pdu, err = m.get(target, oid.GateEnabled, n)
	if err != nil {
		return models.Port{}, err
	}
	enabled, err := transport.TruthValue(pdu)
	if err != nil {
		return models.Port{}, err
	}

	pdu, err = m.get(target, oid.OperControlList, n)
	if err != nil {
		return models.Port{}, err
	}
	list, err := transport.Bytes(pdu)
	if err != nil {
		return models.Port{}, err
	}

	p, err := models.NewPort(models.PortSpec{
		Number:               n,
		SwitchID:             switchID,
		CycleTimeNs:          int64(codec.CycleTimeNs(num, den)),
		CycleTimeExtensionNs: int64(ext),
		Start:                codec.PTPToStartTime(base),
		GateControlList:      codec.DecodeGCL(list),
		GateEnabled:          enabled,
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return models.Port{}, &transport.ProtocolError{
				Kind:   transport.MalformedResponse,
				Op:     "decode",
				Target: target.String(),
				Text:   "device values out of range",
				Err:    err,
			}
		}
		return models.Port{}, err
	}
	return p, nil
}

func (m *Manager) get(target transport.Target, p oid.Param, port int) (gosnmp.SnmpPDU, error) {
	pdu, err := m.client.Get(target, oid.TSN(p, port))
	if err != nil {
		return gosnmp.SnmpPDU{}, fmt.Errorf("%s: %w", p, err)
	}
	return pdu, nil
}

func (m *Manager) getUint(target transport.Target, p oid.Param, port int) (uint32, error) {
	pdu, err := m.get(target, p, port)
	if err != nil {
		return 0, err
	}
	v, err := transport.Uint(pdu)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", p, err)
	}
	return v, nil
}

// ApplyPortConfig writes p to the switch as its pending admin configuration and
// then commits it. The first failed SET stops the pipeline. SETs that already
// succeeded stay applied on the device.
func (m *Manager) ApplyPortConfig(p models.Port, s models.Switch) error {
	if p.SwitchID() != s.ID() {
		return &models.ValidationError{Field: "switchIdentifier", Reason: fmt.Sprintf("port belongs to %q, not %q", p.SwitchID(), s.ID())}
	}
	if p.CycleTimeNs() > math.MaxUint32 {
		return &models.ValidationError{Field: "cycleTime", Reason: fmt.Sprintf("%d ns does not fit a 32-bit numerator", p.CycleTimeNs())}
	}
	if p.CycleTimeExtensionNs() > math.MaxUint32 {
		return &models.ValidationError{Field: "cycleTimeExtension", Reason: fmt.Sprintf("%d ns does not fit 32 bits", p.CycleTimeExtensionNs())}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	target := transport.TargetFor(s.Credential())
	n := p.Number()
	gcl := p.GateControlList()
	base := codec.EncodePTPTime(codec.StartTimeToPTP(p.Start()))

	steps := []struct {
		param oid.Param
		typ   gosnmp.Asn1BER
		value any
	}{
		{oid.AdminBaseTime, gosnmp.OctetString, base[:]},
		{oid.AdminControlListLength, gosnmp.Gauge32, uint32(len(gcl))},
		{oid.AdminControlList, gosnmp.OctetString, codec.EncodeGCL(gcl)},
		{oid.AdminCycleTimeDenominator, gosnmp.Gauge32, uint32(codec.CycleTimeDenominator)},
		{oid.AdminCycleTimeNumerator, gosnmp.Gauge32, uint32(p.CycleTimeNs())},
		{oid.AdminCycleTimeExtension, gosnmp.Gauge32, uint32(p.CycleTimeExtensionNs())},
		{oid.GateEnabled, gosnmp.Integer, transport.TruthInt(p.GateEnabled())},
		{oid.ConfigChange, gosnmp.Integer, 1},
	}
	for i, step := range steps {
		pdu := gosnmp.SnmpPDU{Name: oid.TSN(step.param, n), Type: step.typ, Value: step.value}
		if err := m.client.Set(target, pdu); err != nil {
			m.logger.Warn("port config partially applied",
				"switch", s.ID(),
				"port", n,
				"failed", step.param.String(),
				"applied", i)
			return fmt.Errorf("apply port %d on %s: %s: %w", n, s.ID(), step.param, err)
		}
	}
	m.logger.Info("port config applied", "switch", s.ID(), "port", n, "entries", len(gcl))
	return nil
}
