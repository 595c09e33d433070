package db

import (
	"path/filepath"
	"testing"

	"tsn-cnc/internal/models"
)

func TestOpenMigratesAndKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webcnc.db")
	conn, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	row := models.StoredCredential{Identifier: "sw1", Address: "10.0.0.5", UDPPort: 1161}
	if err := conn.Create(&row).Error; err != nil {
		t.Fatalf("create: %v", err)
	}

	conn, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	var got models.StoredCredential
	if err := conn.Where("identifier = ?", "sw1").First(&got).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Address != "10.0.0.5" || got.UDPPort != 1161 {
		t.Fatalf("row changed across reopen: %+v", got)
	}
}

func TestIdentifierIsUnique(t *testing.T) {
	conn, err := Open(filepath.Join(t.TempDir(), "webcnc.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := conn.Create(&models.StoredCredential{Identifier: "sw1", Address: "10.0.0.5"}).Error; err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := conn.Create(&models.StoredCredential{Identifier: "sw1", Address: "10.0.0.6"}).Error; err == nil {
		t.Fatalf("second row with the same identifier was stored")
	}
	var count int64
	if err := conn.Model(&models.StoredCredential{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("rows = %d, want 1", count)
	}
}
