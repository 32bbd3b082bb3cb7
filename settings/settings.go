// Package settings persists glowtree Params between runs using the
// platform data directory.
package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"

	"github.com/phanxgames/glowtree"
)

const (
	paramsObject   = "settings"
	paramsProperty = "params"
)

// Manager loads and saves Params. A nil gdata manager runs in memory only.
type Manager struct {
	store  *gdata.Manager
	params glowtree.Params
}

// Open creates a Manager backed by gdata storage for appName. When storage
// cannot be opened the Manager still works, without persistence.
func Open(appName string) *Manager {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[glowtree] settings storage unavailable: %v (not persisting)", err)
		store = nil
	}
	return New(store)
}

// New creates a Manager over store and loads any saved params. Load errors
// are logged and the defaults are kept.
func New(store *gdata.Manager) *Manager {
	m := &Manager{store: store, params: glowtree.DefaultParams()}
	if err := m.Load(); err != nil {
		log.Printf("[glowtree] settings load failed: %v (using defaults)", err)
	}
	return m
}

// Persistent reports whether saves reach disk.
func (m *Manager) Persistent() bool {
	return m.store != nil
}

// Load reads the saved params, falling back to defaults when none exist.
func (m *Manager) Load() error {
	if m.store == nil || !m.store.ObjectPropExists(paramsObject, paramsProperty) {
		m.params = glowtree.DefaultParams()
		return nil
	}
	data, err := m.store.LoadObjectProp(paramsObject, paramsProperty)
	if err != nil {
		m.params = glowtree.DefaultParams()
		return fmt.Errorf("load settings: %w", err)
	}
	p, err := glowtree.ParseParams(data)
	if err != nil {
		m.params = glowtree.DefaultParams()
		return fmt.Errorf("load settings: %w", err)
	}
	m.params = p
	return nil
}

// Save writes the current params. It is a no-op without storage.
func (m *Manager) Save() error {
	if m.store == nil {
		return nil
	}
	data, err := m.params.Marshal()
	if err != nil {
		return err
	}
	if err := m.store.SaveObjectProp(paramsObject, paramsProperty, data); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	log.Printf("[glowtree] settings saved")
	return nil
}

// Params returns the current params.
func (m *Manager) Params() glowtree.Params {
	return m.params
}

// Update validates p, makes it current and saves it.
func (m *Manager) Update(p glowtree.Params) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	m.params = p
	return m.Save()
}

// Reset restores and saves the defaults.
func (m *Manager) Reset() error {
	m.params = glowtree.DefaultParams()
	return m.Save()
}
