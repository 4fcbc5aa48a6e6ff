package authz

import (
	"context"
	"fmt"

	"github.com/gatewise/escrowd/internal/domain"
)

// Policy answers authorization questions about asset classes using the access
// grants reported by the asset registry
type Policy struct {
	Registry domain.AssetRegistry
}

// NewPolicy creates a new Policy instance
func NewPolicy(registry domain.AssetRegistry) *Policy {
	return &Policy{Registry: registry}
}

// IsAdministrator reports whether the principal holds the admin capability on
// the given denomination. Only an exact admin grant qualifies; holding any
// other capability (mint, transfer, ...) does not.
func (p *Policy) IsAdministrator(ctx context.Context, principal, denom string) (bool, error) {
	grants, err := p.Registry.PermissionsOf(ctx, denom)
	if err != nil {
		return false, fmt.Errorf("failed to load access grants for %s: %w", denom, err)
	}

	for _, grant := range grants {
		if grant.Address == principal && grant.Has(domain.CapabilityAdmin) {
			return true, nil
		}
	}

	return false, nil
}
