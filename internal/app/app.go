// Package app ties the credential store, the switch operations and the
// in-memory registry together. One App is built at startup and handed to
// every consumer.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tsn-cnc/internal/comms"
	"tsn-cnc/internal/models"
	"tsn-cnc/internal/netstate"
)

var (
	ErrDuplicateIdentifier = errors.New("switch identifier already in use")
	ErrUnknownSwitch       = errors.New("unknown switch")
	ErrUnreachable         = errors.New("switch is unreachable")
)

// Credentials is the persistence the App needs.
type Credentials interface {
	All() ([]models.Credential, error)
	Get(id string) (models.Credential, error)
	Add(c models.Credential) error
	Remove(id string) error
}

// App serializes every operation that writes the registry, so a reload never
// overwrites a change made while it was fetching. Registry reads do not take
// this lock.
type App struct {
	mu       sync.Mutex
	creds    Credentials
	manager  *comms.Manager
	registry *netstate.Registry
	logger   *slog.Logger
}

func New(creds Credentials, manager *comms.Manager, registry *netstate.Registry, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{creds: creds, manager: manager, registry: registry, logger: logger}
}

func (a *App) Switches() []models.Switch {
	return a.registry.All()
}

func (a *App) Switch(id string) (models.Switch, bool) {
	return a.registry.Get(id)
}

// fetchOrDummy fetches c and substitutes the unreachable placeholder on failure.
func (a *App) fetchOrDummy(c models.Credential) models.Switch {
	s, err := a.manager.FetchSwitch(c)
	if err != nil {
		a.logger.Warn("switch unreachable", "switch", c.ID, "address", c.Address, "error", err)
		return models.UnreachableSwitch(c)
	}
	return s
}

// Reload fetches every stored credential and replaces the registry content.
// Invalid stored rows are skipped and reported in the returned error.
func (a *App) Reload() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	creds, loadErr := a.creds.All()
	if creds == nil && loadErr != nil {
		return loadErr
	}
	switches := make([]models.Switch, 0, len(creds))
	for _, c := range creds {
		switches = append(switches, a.fetchOrDummy(c))
	}
	if !a.registry.ReplaceAll(switches) {
		return errors.Join(loadErr, ErrDuplicateIdentifier)
	}
	a.logger.Info("backend reloaded",
		"switches", len(switches),
		"unreachable", len(a.registry.Unreachable()))
	return loadErr
}

// AddSwitch validates rec, fetches the switch and stores it. Nothing is stored
// when the switch cannot be reached.
func (a *App) AddSwitch(rec models.CredentialRecord) (models.Switch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := models.NewCredential(rec)
	if err != nil {
		return models.Switch{}, err
	}
	if _, ok := a.registry.Get(c.ID); ok {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, c.ID)
	}
	s, err := a.manager.FetchSwitch(c)
	if err != nil {
		return models.Switch{}, err
	}
	if !a.registry.Add(s) {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrDuplicateIdentifier, c.ID)
	}
	if err := a.creds.Add(c); err != nil {
		a.registry.Remove(c.ID)
		return models.Switch{}, err
	}
	a.logger.Info("switch added", "switch", c.ID, "sysname", s.SysName())
	return s, nil
}

func (a *App) RemoveSwitch(id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.creds.Remove(id); err != nil {
		return err
	}
	a.registry.Remove(id)
	a.logger.Info("switch removed", "switch", id)
	return nil
}

// SavePort writes p to its switch and, once the device accepted every step,
// stores the updated switch.
func (a *App) SavePort(p models.Port) (models.Switch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s, ok := a.registry.Get(p.SwitchID())
	if !ok {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrUnknownSwitch, p.SwitchID())
	}
	if !s.Reachable() {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrUnreachable, s.ID())
	}
	updated, err := s.WithPort(p)
	if err != nil {
		return models.Switch{}, err
	}
	if err := a.manager.ApplyPortConfig(p, s); err != nil {
		return models.Switch{}, err
	}
	if !a.registry.Replace(updated) {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrUnknownSwitch, s.ID())
	}
	return updated, nil
}

// RefreshSwitch re-reads one switch. Reachable switches are refreshed with
// their own settings; unreachable ones are fetched again from the stored
// credential. A failed attempt leaves the switch unreachable.
func (a *App) RefreshSwitch(id string) (models.Switch, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	current, ok := a.registry.Get(id)
	if !ok {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrUnknownSwitch, id)
	}

	var next models.Switch
	if current.Reachable() {
		s, err := a.manager.RefreshSwitch(current)
		if err != nil {
			a.logger.Warn("switch refresh failed", "switch", id, "error", err)
			s = models.UnreachableSwitch(current.Credential())
		}
		next = s
	} else {
		c, err := a.creds.Get(id)
		if err != nil {
			return models.Switch{}, err
		}
		next = a.fetchOrDummy(c)
	}

	if !a.registry.Replace(next) {
		return models.Switch{}, fmt.Errorf("%w: %s", ErrUnknownSwitch, id)
	}
	return next, nil
}
