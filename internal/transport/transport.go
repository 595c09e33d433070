// Package transport executes single SNMPv3 exchanges against a switch. Every
// call opens its own session and closes it before returning; nothing is kept
// between calls, so a Client is safe to share but callers decide on ordering.
package transport

import (
	"cmp"
	"log/slog"
	"net"
	"slices"
	"strconv"
	"time"

	"github.com/gosnmp/gosnmp"

	"tsn-cnc/internal/models"
	"tsn-cnc/internal/oid"
)

// Target addresses one switch agent.
type Target struct {
	Address  string
	Port     int
	Security models.Security
}

func (t Target) String() string {
	return net.JoinHostPort(t.Address, strconv.Itoa(t.Port))
}

// TargetFor builds the agent target of a credential.
func TargetFor(c models.Credential) Target {
	return Target{Address: c.Address, Port: c.UDPPort, Security: c.Security}
}

// Row is one conceptual table row; Values line up with the requested columns.
type Row struct {
	Index  string
	Values []gosnmp.SnmpPDU
}

// Client is the request surface used by the switch operations.
type Client interface {
	Get(t Target, oid string) (gosnmp.SnmpPDU, error)
	Set(t Target, pdu gosnmp.SnmpPDU) error
	Table(t Target, columns []string) ([]Row, error)
}

// Options apply to every session a SNMP client opens.
type Options struct {
	Retries int
	Timeout time.Duration
}

// SNMP is the gosnmp backed Client.
type SNMP struct {
	opts   Options
	logger *slog.Logger
}

func NewSNMP(opts Options, logger *slog.Logger) *SNMP {
	if opts.Timeout <= 0 {
		opts.Timeout = gosnmp.Default.Timeout
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SNMP{opts: opts, logger: logger}
}

func (c *SNMP) session(t Target) *gosnmp.GoSNMP {
	return &gosnmp.GoSNMP{
		Target:        t.Address,
		Port:          uint16(t.Port),
		Transport:     "udp",
		Version:       gosnmp.Version3,
		Timeout:       c.opts.Timeout,
		Retries:       c.opts.Retries,
		MaxOids:       gosnmp.MaxOids,
		SecurityModel: gosnmp.UserSecurityModel,
		MsgFlags:      gosnmp.AuthPriv,
		SecurityParameters: &gosnmp.UsmSecurityParameters{
			UserName:                 t.Security.UserName,
			AuthenticationProtocol:   authProtocol(t.Security.AuthAlgorithm),
			AuthenticationPassphrase: t.Security.AuthPassword,
			PrivacyProtocol:          privProtocol(t.Security.PrivAlgorithm),
			PrivacyPassphrase:        t.Security.PrivPassword,
		},
	}
}

func authProtocol(a models.AuthAlgorithm) gosnmp.SnmpV3AuthProtocol {
	if a == models.AuthMD5 {
		return gosnmp.MD5
	}
	return gosnmp.SHA
}

func privProtocol(p models.PrivAlgorithm) gosnmp.SnmpV3PrivProtocol {
	if p == models.PrivDES {
		return gosnmp.DES
	}
	return gosnmp.AES
}

// do runs fn inside a fresh session that is closed on every path.
func (c *SNMP) do(t Target, op, name string, fn func(g *gosnmp.GoSNMP) error) error {
	g := c.session(t)
	if err := g.Connect(); err != nil {
		return &ProtocolError{Kind: NoResponse, Op: op, Target: t.String(), OID: name, Err: err}
	}
	defer g.Conn.Close()
	return fn(g)
}

func (c *SNMP) Get(t Target, name string) (gosnmp.SnmpPDU, error) {
	var out gosnmp.SnmpPDU
	err := c.do(t, "get", name, func(g *gosnmp.GoSNMP) error {
		packet, err := g.Get([]string{name})
		if err != nil {
			return &ProtocolError{Kind: NoResponse, Op: "get", Target: t.String(), OID: name, Err: err}
		}
		if err := checkPacket(packet, "get", t, name); err != nil {
			return err
		}
		out = packet.Variables[0]
		return nil
	})
	if err != nil {
		return gosnmp.SnmpPDU{}, err
	}
	c.logger.Debug("snmp get", "target", t.String(), "oid", name, "type", out.Type.String())
	return out, nil
}

func (c *SNMP) Set(t Target, pdu gosnmp.SnmpPDU) error {
	err := c.do(t, "set", pdu.Name, func(g *gosnmp.GoSNMP) error {
		packet, err := g.Set([]gosnmp.SnmpPDU{pdu})
		if err != nil {
			return &ProtocolError{Kind: NoResponse, Op: "set", Target: t.String(), OID: pdu.Name, Err: err}
		}
		return checkPacket(packet, "set", t, pdu.Name)
	})
	if err != nil {
		return err
	}
	c.logger.Debug("snmp set", "target", t.String(), "oid", pdu.Name)
	return nil
}

// Table walks every column with GETNEXT and joins the results by instance index.
// Rows missing a value in any column are skipped. Rows are ordered by index.
func (c *SNMP) Table(t Target, columns []string) ([]Row, error) {
	if len(columns) == 0 {
		return nil, nil
	}
	var rows []Row
	err := c.do(t, "walk", columns[0], func(g *gosnmp.GoSNMP) error {
		cells := make(map[string][]gosnmp.SnmpPDU)
		for col, column := range columns {
			err := g.Walk(column, func(pdu gosnmp.SnmpPDU) error {
				idx, ok := oid.Index(column, pdu.Name)
				if !ok {
					return nil
				}
				if cells[idx] == nil {
					cells[idx] = make([]gosnmp.SnmpPDU, len(columns))
				}
				cells[idx][col] = pdu
				return nil
			})
			if err != nil {
				return &ProtocolError{Kind: NoResponse, Op: "walk", Target: t.String(), OID: column, Err: err}
			}
		}
		rows = joinRows(cells)
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("snmp table", "target", t.String(), "columns", len(columns), "rows", len(rows))
	return rows, nil
}

func joinRows(cells map[string][]gosnmp.SnmpPDU) []Row {
	rows := make([]Row, 0, len(cells))
	for idx, values := range cells {
		complete := true
		for _, v := range values {
			if v.Name == "" {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, Row{Index: idx, Values: values})
		}
	}
	slices.SortFunc(rows, func(a, b Row) int { return compareIndex(a.Index, b.Index) })
	return rows
}

// compareIndex orders OID fragments arc by arc, numerically.
func compareIndex(a, b string) int {
	aa, errA := oid.Arcs(a)
	bb, errB := oid.Arcs(b)
	if errA != nil || errB != nil {
		return cmp.Compare(a, b)
	}
	return slices.Compare(aa, bb)
}

func checkPacket(packet *gosnmp.SnmpPacket, op string, t Target, name string) error {
	if packet == nil {
		return &ProtocolError{Kind: NoResponse, Op: op, Target: t.String(), OID: name, Text: "empty response"}
	}
	if packet.Error != gosnmp.NoError {
		return &ProtocolError{
			Kind:   DeviceError,
			Op:     op,
			Target: t.String(),
			OID:    name,
			Status: packet.Error,
			Index:  int(packet.ErrorIndex),
			Text:   packet.Error.String(),
		}
	}
	if len(packet.Variables) != 1 {
		return &ProtocolError{
			Kind:   MalformedResponse,
			Op:     op,
			Target: t.String(),
			OID:    name,
			Text:   "expected exactly one variable binding, got " + strconv.Itoa(len(packet.Variables)),
		}
	}
	if op == "get" {
		if err := checkValue(packet.Variables[0]); err != nil {
			return err
		}
	}
	return nil
}
