package engine

import (
	"context"
	"errors"
	"strings"

	"walletengine/internal/models"
	"walletengine/internal/store"
)

// resolver resolves symbolic inputs (asset codes, user ids, system
// account names) to concrete Store records, validating activity and
// asset-type match along the way.
type resolver struct {
	db store.Store
}

func newResolver(db store.Store) *resolver {
	return &resolver{db: db}
}

func (r *resolver) resolveAssetType(ctx context.Context, code string) (*models.AssetType, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	at, err := r.db.GetAssetTypeByCode(ctx, normalized)
	if errors.Is(err, store.ErrNotFound) {
		return nil, AssetNotFoundErr(code)
	}
	if err != nil {
		return nil, InternalStoreErr(err)
	}
	if !at.IsActive {
		return nil, AssetNotFoundErr(code)
	}
	return at, nil
}

func (r *resolver) resolveUserAccount(ctx context.Context, userID, assetTypeID string) (*models.Account, error) {
	a, err := r.db.GetAccountByUserAsset(ctx, userID, assetTypeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, WalletNotFoundErr(userID)
	}
	if err != nil {
		return nil, InternalStoreErr(err)
	}
	if !a.IsActive {
		return nil, WalletInactiveErr(a.ID)
	}
	return a, nil
}

func (r *resolver) resolveSystemAccount(ctx context.Context, name, assetTypeID string) (*models.Account, error) {
	a, err := r.db.GetSystemAccountByName(ctx, name, assetTypeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, WalletNotFoundErr(name)
	}
	if err != nil {
		return nil, InternalStoreErr(err)
	}
	if !a.IsActive {
		return nil, WalletInactiveErr(a.ID)
	}
	return a, nil
}
