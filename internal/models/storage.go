package models

import "time"

// StoredCredential is the database row of one switch credential.
type StoredCredential struct {
	ID               uint   `gorm:"primaryKey"`
	Identifier       string `gorm:"uniqueIndex;not null"`
	Address          string `gorm:"not null"`
	UDPPort          int
	AuthUserName     string
	AuthAlgorithm    string
	AuthPassword     string
	EncryptAlgorithm string
	EncryptPassword  string
	TSNPorts         string
	CreatedAt        time.Time
}

func (r StoredCredential) Record() CredentialRecord {
	return CredentialRecord{
		Identifier:       r.Identifier,
		Address:          r.Address,
		UDPPort:          r.UDPPort,
		AuthUserName:     r.AuthUserName,
		AuthAlgorithm:    r.AuthAlgorithm,
		AuthPassword:     r.AuthPassword,
		EncryptAlgorithm: r.EncryptAlgorithm,
		EncryptPassword:  r.EncryptPassword,
		TSNPortsCSV:      r.TSNPorts,
	}
}

func StoredCredentialFrom(c Credential) StoredCredential {
	rec := c.Record()
	return StoredCredential{
		Identifier:       rec.Identifier,
		Address:          rec.Address,
		UDPPort:          rec.UDPPort,
		AuthUserName:     rec.AuthUserName,
		AuthAlgorithm:    rec.AuthAlgorithm,
		AuthPassword:     rec.AuthPassword,
		EncryptAlgorithm: rec.EncryptAlgorithm,
		EncryptPassword:  rec.EncryptPassword,
		TSNPorts:         rec.TSNPortsCSV,
	}
}
