// Package credstore persists switch credentials.
package credstore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tsn-cnc/internal/models"
)

var (
	ErrNotFound  = errors.New("credential not found")
	ErrDuplicate = errors.New("credential already exists")
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// All returns every stored credential in insertion order. Rows that no longer
// validate are reported together with the valid ones.
func (s *Store) All() ([]models.Credential, error) {
	var rows []models.StoredCredential
	if err := s.db.Order("id asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	out := make([]models.Credential, 0, len(rows))
	var errs []error
	for _, row := range rows {
		c, err := models.NewCredential(row.Record())
		if err != nil {
			errs = append(errs, fmt.Errorf("credential %q: %w", row.Identifier, err))
			continue
		}
		out = append(out, c)
	}
	return out, errors.Join(errs...)
}

func (s *Store) Get(id string) (models.Credential, error) {
	var row models.StoredCredential
	err := s.db.Where("identifier = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Credential{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("load credential %s: %w", id, err)
	}
	return models.NewCredential(row.Record())
}

func (s *Store) Add(c models.Credential) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.StoredCredential{}).Where("identifier = ?", c.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("check credential %s: %w", c.ID, err)
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicate, c.ID)
		}
		row := models.StoredCredentialFrom(c)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("store credential %s: %w", c.ID, err)
		}
		return nil
	})
}

func (s *Store) Remove(id string) error {
	res := s.db.Where("identifier = ?", id).Delete(&models.StoredCredential{})
	if res.Error != nil {
		return fmt.Errorf("delete credential %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
