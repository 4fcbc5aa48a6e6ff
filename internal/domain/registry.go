package domain

import (
	"context"
	"errors"
)

// ErrDenomNotKnown reports that the registry holds no entry for a
// denomination. Registry implementations wrap it so callers can tell an
// unknown denomination apart from an infrastructure failure.
var ErrDenomNotKnown = errors.New("denomination not known to the registry")

// AssetRegistry defines the read-only view of asset-class metadata consumed by
// the escrow workflow. The registry is externally owned; this service never
// mutates it and reads its state fresh on every call.
type AssetRegistry interface {
	// Classify reports the asset class of a denomination
	Classify(ctx context.Context, denom string) (AssetClass, error)

	// PermissionsOf returns the access grants held on a denomination
	PermissionsOf(ctx context.Context, denom string) ([]AccessGrant, error)
}
