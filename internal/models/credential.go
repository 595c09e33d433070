package models

import (
	"net"
	"slices"
	"strconv"
	"strings"
)

type AuthAlgorithm string

const (
	AuthMD5  AuthAlgorithm = "MD5"
	AuthSHA1 AuthAlgorithm = "SHA1"
)

// ParseAuthAlgorithm accepts MD5 or SHA1, case-insensitive.
func ParseAuthAlgorithm(raw string) (AuthAlgorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(AuthMD5):
		return AuthMD5, nil
	case string(AuthSHA1):
		return AuthSHA1, nil
	}
	return "", invalid("authAlgorithm", "%q not supported", raw)
}

type PrivAlgorithm string

const (
	PrivDES    PrivAlgorithm = "DES"
	PrivAES128 PrivAlgorithm = "AES128"
)

// ParsePrivAlgorithm accepts DES or AES128, case-insensitive.
func ParsePrivAlgorithm(raw string) (PrivAlgorithm, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(PrivDES):
		return PrivDES, nil
	case string(PrivAES128):
		return PrivAES128, nil
	}
	return "", invalid("encryptAlgorithm", "%q not supported", raw)
}

// CredentialRecord is the raw credential shape exchanged with storage and the API.
type CredentialRecord struct {
	Identifier       string `json:"switchIdentifier"`
	Address          string `json:"address"`
	UDPPort          int    `json:"port"`
	AuthUserName     string `json:"authUserName"`
	AuthAlgorithm    string `json:"authAlgorithm"`
	AuthPassword     string `json:"authPassword"`
	EncryptAlgorithm string `json:"encryptAlgorithm"`
	EncryptPassword  string `json:"encryptPassword"`
	TSNPortsCSV      string `json:"tsnPortsString"`
}

// Security holds the SNMPv3 USM settings of one switch.
type Security struct {
	UserName      string
	AuthAlgorithm AuthAlgorithm
	AuthPassword  string
	PrivAlgorithm PrivAlgorithm
	PrivPassword  string
}

// Credential is a validated CredentialRecord.
type Credential struct {
	ID       string
	Address  string
	UDPPort  int
	Security Security
	TSNPorts []int
}

// NewCredential validates rec and normalizes its TSN port list.
func NewCredential(rec CredentialRecord) (Credential, error) {
	id := strings.TrimSpace(rec.Identifier)
	if id == "" {
		return Credential{}, invalid("switchIdentifier", "must not be empty")
	}
	if !IsIPv4(rec.Address) {
		return Credential{}, invalid("address", "%q is not a dotted-quad IPv4 address", rec.Address)
	}
	if rec.UDPPort <= 0 || rec.UDPPort > 65535 {
		return Credential{}, invalid("port", "%d out of range", rec.UDPPort)
	}
	auth, err := ParseAuthAlgorithm(rec.AuthAlgorithm)
	if err != nil {
		return Credential{}, err
	}
	priv, err := ParsePrivAlgorithm(rec.EncryptAlgorithm)
	if err != nil {
		return Credential{}, err
	}
	ports, err := ParseTSNPorts(rec.TSNPortsCSV)
	if err != nil {
		return Credential{}, err
	}
	return Credential{
		ID:      id,
		Address: strings.TrimSpace(rec.Address),
		UDPPort: rec.UDPPort,
		Security: Security{
			UserName:      rec.AuthUserName,
			AuthAlgorithm: auth,
			AuthPassword:  rec.AuthPassword,
			PrivAlgorithm: priv,
			PrivPassword:  rec.EncryptPassword,
		},
		TSNPorts: ports,
	}, nil
}

// Record converts c back to its storage shape.
func (c Credential) Record() CredentialRecord {
	return CredentialRecord{
		Identifier:       c.ID,
		Address:          c.Address,
		UDPPort:          c.UDPPort,
		AuthUserName:     c.Security.UserName,
		AuthAlgorithm:    string(c.Security.AuthAlgorithm),
		AuthPassword:     c.Security.AuthPassword,
		EncryptAlgorithm: string(c.Security.PrivAlgorithm),
		EncryptPassword:  c.Security.PrivPassword,
		TSNPortsCSV:      FormatTSNPorts(c.TSNPorts),
	}
}

// ParseTSNPorts parses a comma separated list of non-negative integers.
// The result is deduplicated and sorted ascending. An empty string yields no ports.
func ParseTSNPorts(csv string) ([]int, error) {
	if strings.TrimSpace(csv) == "" {
		return []int{}, nil
	}
	parts := strings.Split(csv, ",")
	ports := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, invalid("tsnPortsString", "%q is not a number", part)
		}
		if n < 0 {
			return nil, invalid("tsnPortsString", "negative port number %d", n)
		}
		ports = append(ports, n)
	}
	return NormalizePorts(ports), nil
}

// NormalizePorts returns a sorted copy of ports without duplicates.
func NormalizePorts(ports []int) []int {
	out := slices.Clone(ports)
	slices.Sort(out)
	return slices.Compact(out)
}

func FormatTSNPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}

// IsIPv4 reports whether s is a dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	s = strings.TrimSpace(s)
	if strings.Count(s, ".") != 3 {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}
