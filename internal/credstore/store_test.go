package credstore

import (
	"errors"
	"path/filepath"
	"testing"

	"tsn-cnc/internal/db"
	"tsn-cnc/internal/models"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "webcnc.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return New(conn)
}

func cred(t *testing.T, id, ports string) models.Credential {
	t.Helper()
	c, err := models.NewCredential(models.CredentialRecord{
		Identifier:       id,
		Address:          "10.0.0.5",
		UDPPort:          161,
		AuthUserName:     "admin",
		AuthAlgorithm:    "MD5",
		AuthPassword:     "authpass1",
		EncryptAlgorithm: "DES",
		EncryptPassword:  "privpass1",
		TSNPortsCSV:      ports,
	})
	if err != nil {
		t.Fatalf("credential: %v", err)
	}
	return c
}

func TestAddGetAll(t *testing.T) {
	s := openStore(t)
	if err := s.Add(cred(t, "sw1", "3,1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(cred(t, "sw2", "")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := s.Get("sw1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Security.AuthAlgorithm != models.AuthMD5 || got.Security.PrivAlgorithm != models.PrivDES {
		t.Fatalf("security = %+v", got.Security)
	}
	if len(got.TSNPorts) != 2 || got.TSNPorts[0] != 1 || got.TSNPorts[1] != 3 {
		t.Fatalf("ports = %v", got.TSNPorts)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 || all[0].ID != "sw1" || all[1].ID != "sw2" {
		t.Fatalf("all = %+v", all)
	}
}

func TestAddDuplicate(t *testing.T) {
	s := openStore(t)
	if err := s.Add(cred(t, "sw1", "1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(cred(t, "sw1", "2")); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := openStore(t)
	if err := s.Add(cred(t, "sw1", "1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Remove("sw1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove("sw1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.Get("sw1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllReportsInvalidRows(t *testing.T) {
	s := openStore(t)
	if err := s.Add(cred(t, "sw1", "1")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	bad := models.StoredCredential{Identifier: "broken", Address: "not-an-ip", UDPPort: 161, AuthAlgorithm: "MD5", EncryptAlgorithm: "DES"}
	if err := s.db.Create(&bad).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	all, err := s.All()
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Field != "address" {
		t.Fatalf("expected address validation error, got %v", err)
	}
	if len(all) != 1 || all[0].ID != "sw1" {
		t.Fatalf("valid credentials = %+v", all)
	}
}
