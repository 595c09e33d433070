// Package oid holds the fixed MIB object identifiers used to talk to TSN switches.
package oid

import (
	"fmt"
	"strconv"
	"strings"
)

// SNMPv2-MIB system group.
const SysName = "1.3.6.1.2.1.1.5.0"

// LLDP-MIB lldpRemTable columns, indexed by (timeMark, localPortNum, remIndex).
const (
	LLDPRemPortID  = "1.0.8802.1.1.2.1.4.1.1.7"
	LLDPRemSysName = "1.0.8802.1.1.2.1.4.1.1.9"
)

// TSNBase is the ieee8021STParametersEntry branch. Objects below it are
// addressed as TSNBase.<param>.<component>.<port>.
const TSNBase = "1.3.111.2.802.1.1.30.1.2.1.1"

// Component is the bridge component id used for every TSN object.
const Component = 1

// Param selects one column of the scheduled traffic parameters table.
type Param int

const (
	GateEnabled               Param = 1
	AdminControlListLength    Param = 4
	AdminControlList          Param = 6
	OperControlList           Param = 7
	AdminCycleTimeNumerator   Param = 8
	AdminCycleTimeDenominator Param = 9
	OperCycleTimeNumerator    Param = 10
	OperCycleTimeDenominator  Param = 11
	AdminCycleTimeExtension   Param = 12
	OperCycleTimeExtension    Param = 13
	AdminBaseTime             Param = 14
	OperBaseTime              Param = 15
	ConfigChange              Param = 16
)

var paramNames = map[Param]string{
	GateEnabled:               "gateEnabled",
	AdminControlListLength:    "adminControlListLength",
	AdminControlList:          "adminControlList",
	OperControlList:           "operControlList",
	AdminCycleTimeNumerator:   "adminCycleTimeNumerator",
	AdminCycleTimeDenominator: "adminCycleTimeDenominator",
	OperCycleTimeNumerator:    "operCycleTimeNumerator",
	OperCycleTimeDenominator:  "operCycleTimeDenominator",
	AdminCycleTimeExtension:   "adminCycleTimeExtension",
	OperCycleTimeExtension:    "operCycleTimeExtension",
	AdminBaseTime:             "adminBaseTime",
	OperBaseTime:              "operBaseTime",
	ConfigChange:              "configChange",
}

func (p Param) String() string {
	if name, ok := paramNames[p]; ok {
		return name
	}
	return fmt.Sprintf("param(%d)", int(p))
}

// TSN returns the instance OID of param for the given port.
func TSN(p Param, port int) string {
	return fmt.Sprintf("%s.%d.%d.%d", TSNBase, int(p), Component, port)
}

// Normalize strips the leading dot gosnmp puts in front of returned names.
func Normalize(o string) string {
	return strings.TrimPrefix(strings.TrimSpace(o), ".")
}

// Index returns the instance suffix of name below column, e.g. "0.3.1" for
// column "1.2" and name ".1.2.0.3.1". ok is false when name is not below column.
func Index(column, name string) (string, bool) {
	prefix := Normalize(column) + "."
	n := Normalize(name)
	if !strings.HasPrefix(n, prefix) || len(n) == len(prefix) {
		return "", false
	}
	return n[len(prefix):], true
}

// Arcs parses a dotted OID fragment into its numeric arcs.
func Arcs(index string) ([]int, error) {
	if index == "" {
		return nil, fmt.Errorf("empty oid")
	}
	parts := strings.Split(index, ".")
	arcs := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("bad oid arc %q in %q", part, index)
		}
		arcs[i] = n
	}
	return arcs, nil
}

// LLDPLocalPort extracts lldpRemLocalPortNum, the second to last arc of an lldpRemTable index.
func LLDPLocalPort(index string) (int, error) {
	arcs, err := Arcs(index)
	if err != nil {
		return 0, err
	}
	if len(arcs) < 2 {
		return 0, fmt.Errorf("lldp index %q too short", index)
	}
	return arcs[len(arcs)-2], nil
}
