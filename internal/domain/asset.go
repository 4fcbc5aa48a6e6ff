package domain

import (
	"github.com/shopspring/decimal"
)

// AssetClass represents how an asset class moves on the ledger
type AssetClass string

const (
	// AssetClassRestricted marks classes whose ordinary transfer path is disabled;
	// units move only through privileged custody transfers
	AssetClassRestricted AssetClass = "restricted"
	// AssetClassStandard marks every other class
	AssetClassStandard AssetClass = "standard"
)

// Capability represents a permission grant on an asset class
type Capability string

const (
	CapabilityAdmin    Capability = "admin"
	CapabilityMint     Capability = "mint"
	CapabilityBurn     Capability = "burn"
	CapabilityDeposit  Capability = "deposit"
	CapabilityWithdraw Capability = "withdraw"
	CapabilityTransfer Capability = "transfer"
	CapabilityDelete   Capability = "delete"
)

// AccessGrant represents one principal's capability set on an asset class
type AccessGrant struct {
	Address     string
	Permissions []Capability
}

// Has reports whether the grant includes the given capability
func (g AccessGrant) Has(capability Capability) bool {
	for _, p := range g.Permissions {
		if p == capability {
			return true
		}
	}
	return false
}

// Coin represents an amount of a single denomination, as attached to a call
type Coin struct {
	Denom  string
	Amount decimal.Decimal
}
