package seeder

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gatewise/escrowd/internal/domain"
)

// Well-known dev principals seeded into the memory backends
const (
	DevAdmin     = "dev_admin"
	DevSender    = "dev_sender"
	DevRecipient = "dev_recipient"

	DevRestrictedDenom = "restricted.dev"
	DevStandardDenom   = "standard.dev"
)

// AssetCatalog is the writable view of the in-memory asset registry
type AssetCatalog interface {
	Known(denom string) bool
	SetAsset(denom string, class domain.AssetClass, grants []domain.AccessGrant)
}

// BalanceBook is the writable view of the in-memory ledger
type BalanceBook interface {
	BalanceOf(ctx context.Context, principal, denom string) (decimal.Decimal, error)
	SetBalance(principal, denom string, amount decimal.Decimal)
}

// DevSeeder loads fixtures into the memory backends so a freshly started
// memory-mode server is immediately usable
type DevSeeder struct {
	registry AssetCatalog
	ledger   BalanceBook
}

// NewDevSeeder creates a new DevSeeder instance
func NewDevSeeder(registry AssetCatalog, ledger BalanceBook) *DevSeeder {
	return &DevSeeder{
		registry: registry,
		ledger:   ledger,
	}
}

// Seed ensures the dev fixtures exist: one restricted asset class with an
// admin grant, one standard class, and a funded sender account
// Existing entries are left untouched, so re-running is safe
func (s *DevSeeder) Seed(ctx context.Context) error {
	if !s.registry.Known(DevRestrictedDenom) {
		s.registry.SetAsset(DevRestrictedDenom, domain.AssetClassRestricted, []domain.AccessGrant{
			{
				Address:     DevAdmin,
				Permissions: []domain.Capability{domain.CapabilityAdmin, domain.CapabilityTransfer},
			},
		})
	}

	if !s.registry.Known(DevStandardDenom) {
		s.registry.SetAsset(DevStandardDenom, domain.AssetClassStandard, nil)
	}

	balance, err := s.ledger.BalanceOf(ctx, DevSender, DevRestrictedDenom)
	if err != nil {
		return err
	}
	if balance.IsZero() {
		s.ledger.SetBalance(DevSender, DevRestrictedDenom, decimal.NewFromInt(1000))
	}

	return nil
}
