package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("key not found")

// KV is minimal durable key/value storage. One developer display label
// lives here today, nothing else is persisted.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

const displayNameKey = "fxwidget:display-name"

// NewDisplayName return the developer display label store
func NewDisplayName(kv KV) *DisplayName {
	return &DisplayName{kv: kv}
}

// DisplayName persists the user editable developer label with no
// expiry: read once at startup, written on every edit
type DisplayName struct {
	kv KV
}

// Load returns the stored label, or the empty string when none was
// saved yet
func (d *DisplayName) Load(ctx context.Context) (string, error) {
	v, err := d.kv.Get(ctx, displayNameKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil
		}

		return "", err
	}

	return v, nil
}

func (d *DisplayName) Save(ctx context.Context, name string) error {
	return d.kv.Set(ctx, displayNameKey, name)
}
