package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xxxsen/clinicbill/internal/kvstore"
	"github.com/xxxsen/clinicbill/internal/model"
	appErr "github.com/xxxsen/clinicbill/internal/pkg/errors"
)

// SavedViewsKey is the single slot holding the whole view collection.
const SavedViewsKey = "clinic_billing_saved_views"

type SavedViewRepo struct {
	store kvstore.Store
	key   string
}

func NewSavedViewRepo(store kvstore.Store) *SavedViewRepo {
	return &SavedViewRepo{store: store, key: SavedViewsKey}
}

// List decodes the stored collection. An absent slot is an empty list. A
// value that does not decode also yields an empty list, together with an
// error wrapping ErrCorrupted.
func (r *SavedViewRepo) List(ctx context.Context) ([]model.SavedView, error) {
	raw, ok, err := r.store.Get(ctx, r.key)
	if err != nil {
		return nil, err
	}
	items := make([]model.SavedView, 0)
	if !ok {
		return items, nil
	}
	var decoded []model.SavedView
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return items, fmt.Errorf("%w: decode %s: %v", appErr.ErrCorrupted, r.key, err)
	}
	return append(items, decoded...), nil
}

// Replace writes the full collection in a single Set.
func (r *SavedViewRepo) Replace(ctx context.Context, items []model.SavedView) error {
	if items == nil {
		items = []model.SavedView{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode saved views: %w", err)
	}
	return r.store.Set(ctx, r.key, string(data))
}
