package transport

import (
	"errors"
	"fmt"

	"github.com/gosnmp/gosnmp"
)

// Kind classifies a failed SNMP exchange.
type Kind int

const (
	// NoResponse covers timeouts after all retries and socket level failures.
	NoResponse Kind = iota + 1
	// MalformedResponse means the agent answered with something unusable.
	MalformedResponse
	// DeviceError means the agent answered with a non-zero error-status.
	DeviceError
)

func (k Kind) String() string {
	switch k {
	case NoResponse:
		return "no response"
	case MalformedResponse:
		return "malformed response"
	case DeviceError:
		return "device error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ProtocolError reports one failed SNMP exchange.
type ProtocolError struct {
	Kind   Kind
	Op     string
	Target string
	OID    string
	// Status, Index and Text are set for DeviceError.
	Status gosnmp.SNMPError
	Index  int
	Text   string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e == nil {
		return "snmp protocol error"
	}
	msg := fmt.Sprintf("snmp %s %s on %s: %s", e.Op, e.OID, e.Target, e.Kind)
	switch {
	case e.Kind == DeviceError:
		msg += fmt.Sprintf(" (status %d %s, index %d)", int(e.Status), e.Text, e.Index)
	case e.Text != "":
		msg += ": " + e.Text
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err carries a ProtocolError of kind k.
func IsKind(err error, k Kind) bool {
	var perr *ProtocolError
	return errors.As(err, &perr) && perr.Kind == k
}

// Malformed builds a MalformedResponse error for pdu.
func Malformed(pdu gosnmp.SnmpPDU, format string, args ...any) *ProtocolError {
	return &ProtocolError{
		Kind: MalformedResponse,
		Op:   "decode",
		OID:  pdu.Name,
		Text: fmt.Sprintf(format, args...),
	}
}
