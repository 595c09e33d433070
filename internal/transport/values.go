package transport

import (
	"github.com/gosnmp/gosnmp"
)

func checkValue(pdu gosnmp.SnmpPDU) error {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return Malformed(pdu, "agent returned %s", pdu.Type)
	}
	return nil
}

// Uint reads an unsigned 32-bit value (Gauge32, Counter32, Unsigned32, TimeTicks
// or a non-negative Integer).
func Uint(pdu gosnmp.SnmpPDU) (uint32, error) {
	if err := checkValue(pdu); err != nil {
		return 0, err
	}
	switch pdu.Type {
	case gosnmp.Gauge32, gosnmp.Counter32, gosnmp.Uinteger32, gosnmp.TimeTicks, gosnmp.Integer:
	default:
		return 0, Malformed(pdu, "expected unsigned integer, got %s", pdu.Type)
	}
	v := gosnmp.ToBigInt(pdu.Value)
	if v.Sign() < 0 || !v.IsUint64() || v.Uint64() > 1<<32-1 {
		return 0, Malformed(pdu, "value %v out of 32-bit range", v)
	}
	return uint32(v.Uint64()), nil
}

// Int reads an INTEGER value.
func Int(pdu gosnmp.SnmpPDU) (int, error) {
	if err := checkValue(pdu); err != nil {
		return 0, err
	}
	if pdu.Type != gosnmp.Integer {
		return 0, Malformed(pdu, "expected integer, got %s", pdu.Type)
	}
	v, ok := pdu.Value.(int)
	if !ok {
		return 0, Malformed(pdu, "integer has Go type %T", pdu.Value)
	}
	return v, nil
}

// Bytes reads an OCTET STRING value.
func Bytes(pdu gosnmp.SnmpPDU) ([]byte, error) {
	if err := checkValue(pdu); err != nil {
		return nil, err
	}
	if pdu.Type != gosnmp.OctetString {
		return nil, Malformed(pdu, "expected octet string, got %s", pdu.Type)
	}
	switch v := pdu.Value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, Malformed(pdu, "octet string has Go type %T", pdu.Value)
}

// String reads an OCTET STRING value as text.
func String(pdu gosnmp.SnmpPDU) (string, error) {
	b, err := Bytes(pdu)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TruthValue reads an SNMPv2-TC TruthValue. Only 1 means true.
func TruthValue(pdu gosnmp.SnmpPDU) (bool, error) {
	v, err := Int(pdu)
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// TruthInt encodes b as a TruthValue.
func TruthInt(b bool) int {
	if b {
		return 1
	}
	return 2
}
