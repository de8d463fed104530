package storefront

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	repository.Validator
	repository.TransactionManager
	Creators() Creators
	CartStorage() CartRepository
}

type mngr struct {
	db          *bun.DB
	creators    Creators
	cartStorage CartRepository
}

func NewRepositoryManager(db *bun.DB, cfg Config) RepositoryManager {
	key := DefaultCartStorageKey
	if cfg != nil {
		key = cfg.GetCartStorageKey()
	}

	return &mngr{
		db:          db,
		creators:    NewCreatorsRepository(db),
		cartStorage: NewBunCartRepository(db, key),
	}
}

func (m mngr) Validate() error {
	if m.creators == nil {
		return errors.New("repository creators should be initialized")
	}

	if m.cartStorage == nil {
		return errors.New("repository cartStorage should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Creators() Creators {
	return m.creators
}

func (m mngr) CartStorage() CartRepository {
	return m.cartStorage
}
