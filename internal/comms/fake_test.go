package comms

import (
	"sync"

	"github.com/gosnmp/gosnmp"

	"tsn-cnc/internal/oid"
	"tsn-cnc/internal/transport"
)

// fakeClient is an in-memory agent. Values written by Set are visible to Get.
type fakeClient struct {
	mu     sync.Mutex
	values map[string]gosnmp.SnmpPDU
	rows   []transport.Row
	fail   map[string]error
	gets   []string
	sets   []gosnmp.SnmpPDU
}

func newFakeClient(sysName string) *fakeClient {
	f := &fakeClient{
		values: make(map[string]gosnmp.SnmpPDU),
		fail:   make(map[string]error),
	}
	f.put(gosnmp.SnmpPDU{Name: oid.SysName, Type: gosnmp.OctetString, Value: []byte(sysName)})
	return f
}

func (f *fakeClient) put(pdu gosnmp.SnmpPDU) {
	f.values[pdu.Name] = pdu
}

func (f *fakeClient) addPort(n int, num, den, ext uint32, base []byte, enabled int, gcl []byte) {
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.OperCycleTimeNumerator, n), Type: gosnmp.Gauge32, Value: uint(num)})
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.OperCycleTimeDenominator, n), Type: gosnmp.Gauge32, Value: uint(den)})
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.OperCycleTimeExtension, n), Type: gosnmp.Gauge32, Value: uint(ext)})
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.OperBaseTime, n), Type: gosnmp.OctetString, Value: base})
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.GateEnabled, n), Type: gosnmp.Integer, Value: enabled})
	f.put(gosnmp.SnmpPDU{Name: oid.TSN(oid.OperControlList, n), Type: gosnmp.OctetString, Value: gcl})
}

func (f *fakeClient) addNeighbor(index, sysName, portID string) {
	f.rows = append(f.rows, transport.Row{
		Index: index,
		Values: []gosnmp.SnmpPDU{
			{Name: oid.LLDPRemSysName + "." + index, Type: gosnmp.OctetString, Value: []byte(sysName)},
			{Name: oid.LLDPRemPortID + "." + index, Type: gosnmp.OctetString, Value: []byte(portID)},
		},
	})
}

func (f *fakeClient) Get(t transport.Target, name string) (gosnmp.SnmpPDU, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets = append(f.gets, name)
	if err := f.fail[name]; err != nil {
		return gosnmp.SnmpPDU{}, err
	}
	pdu, ok := f.values[name]
	if !ok {
		return gosnmp.SnmpPDU{Name: name, Type: gosnmp.NoSuchInstance}, nil
	}
	return pdu, nil
}

func (f *fakeClient) Set(t transport.Target, pdu gosnmp.SnmpPDU) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets = append(f.sets, pdu)
	if err := f.fail[pdu.Name]; err != nil {
		return err
	}
	f.values[pdu.Name] = pdu
	return nil
}

func (f *fakeClient) Table(t transport.Target, columns []string) ([]transport.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[columns[0]]; err != nil {
		return nil, err
	}
	return f.rows, nil
}

func noResponse(name string) error {
	return &transport.ProtocolError{Kind: transport.NoResponse, Op: "get", OID: name, Text: "request timeout"}
}
