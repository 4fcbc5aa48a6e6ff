package assetregistry

import (
	"context"
	"fmt"
	"sync"

	"github.com/gatewise/escrowd/internal/domain"
)

type asset struct {
	class  domain.AssetClass
	grants []domain.AccessGrant
}

// Memory is an in-memory AssetRegistry used by tests and the memory backend mode
type Memory struct {
	mu     sync.RWMutex
	assets map[string]asset
}

// NewMemory creates an empty in-memory asset registry
func NewMemory() *Memory {
	return &Memory{assets: make(map[string]asset)}
}

// SetAsset registers or replaces a denomination's class and access grants
func (m *Memory) SetAsset(denom string, class domain.AssetClass, grants []domain.AccessGrant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[denom] = asset{class: class, grants: grants}
}

// Known reports whether a denomination is registered
func (m *Memory) Known(denom string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.assets[denom]
	return ok
}

// Classify reports the asset class of a denomination
func (m *Memory) Classify(ctx context.Context, denom string) (domain.AssetClass, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.assets[denom]
	if !ok {
		return "", fmt.Errorf("denomination %s: %w", denom, domain.ErrDenomNotKnown)
	}
	return entry.class, nil
}

// PermissionsOf returns the access grants held on a denomination
func (m *Memory) PermissionsOf(ctx context.Context, denom string) ([]domain.AccessGrant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.assets[denom]
	if !ok {
		return nil, fmt.Errorf("denomination %s: %w", denom, domain.ErrDenomNotKnown)
	}

	grants := make([]domain.AccessGrant, len(entry.grants))
	copy(grants, entry.grants)
	return grants, nil
}
