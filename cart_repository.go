package storefront

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// BunCartRepository persists CartState as JSON in the client_storage table
// under a single fixed key.
type BunCartRepository struct {
	db  *bun.DB
	key string
}

var _ CartRepository = (*BunCartRepository)(nil)

// NewBunCartRepository returns a repository writing to key; an empty key
// falls back to the package default.
func NewBunCartRepository(db *bun.DB, key string) *BunCartRepository {
	if key == "" {
		key = DefaultCartStorageKey
	}
	return &BunCartRepository{db: db, key: key}
}

func (r *BunCartRepository) Load(ctx context.Context) (CartState, error) {
	record := &ClientStorage{}

	err := r.db.NewSelect().
		Model(record).
		Where("cst.key = ?", r.key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CartState{}, nil
		}
		return CartState{}, goerrors.Wrap(err, goerrors.CategoryExternal, "failed to load cart state")
	}

	var state CartState
	if err := json.Unmarshal(record.Value, &state); err != nil {
		return CartState{}, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to decode cart state")
	}

	return state, nil
}

func (r *BunCartRepository) Save(ctx context.Context, state CartState) error {
	value, err := json.Marshal(state)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode cart state")
	}

	now := time.Now()
	record := &ClientStorage{
		Key:       r.key,
		Value:     value,
		UpdatedAt: &now,
	}

	_, err = r.db.NewInsert().
		Model(record).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryExternal, "failed to save cart state")
	}

	return nil
}

// MemoryCartRepository keeps CartState in process memory. Useful for tests
// and for guest sessions on platforms without durable storage.
type MemoryCartRepository struct {
	mu    sync.Mutex
	state CartState
	set   bool
}

var _ CartRepository = (*MemoryCartRepository)(nil)

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{}
}

func (r *MemoryCartRepository) Load(context.Context) (CartState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.set {
		return CartState{}, nil
	}
	return r.state, nil
}

func (r *MemoryCartRepository) Save(_ context.Context, state CartState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state
	r.set = true
	return nil
}
