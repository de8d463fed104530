package storefront

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Creators is the creator-profile repository. Role resolution only needs
// ExistsForUser; the rest is the standard repository surface for the
// dashboard CRUD that sits outside this package.
type Creators interface {
	repository.Repository[*CreatorProfile]

	FindByUserID(ctx context.Context, userID uuid.UUID) (*CreatorProfile, error)
	ExistsForUser(ctx context.Context, userID string) (bool, error)
}

type creators struct {
	repository.Repository[*CreatorProfile]
	db *bun.DB
}

var (
	_ Creators                               = (*creators)(nil)
	_ repository.Repository[*CreatorProfile] = (*creators)(nil)
	_ CreatorLookup                          = (*creators)(nil)
)

// NewCreatorsRepository returns the bun-backed Creators repository.
func NewCreatorsRepository(db *bun.DB) Creators {
	repo := repository.NewRepository[*CreatorProfile](db, repository.ModelHandlers[*CreatorProfile]{
		NewRecord: func() *CreatorProfile { return &CreatorProfile{} },
		GetID: func(c *CreatorProfile) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *CreatorProfile, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &creators{
		Repository: repo,
		db:         db,
	}
}

func (r *creators) FindByUserID(ctx context.Context, userID uuid.UUID) (*CreatorProfile, error) {
	profile := &CreatorProfile{}

	err := r.db.NewSelect().
		Model(profile).
		Where("crp.user_id = ?", userID).
		Where("crp.deleted_at IS NULL").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "failed to find creator profile by user id")
	}

	return profile, nil
}

// ExistsForUser reports whether a creator profile exists for the user. A
// malformed user id cannot own a profile and resolves to false without
// touching the database.
func (r *creators) ExistsForUser(ctx context.Context, userID string) (bool, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return false, nil
	}

	exists, err := r.db.NewSelect().
		Model((*CreatorProfile)(nil)).
		Where("crp.user_id = ?", uid).
		Where("crp.deleted_at IS NULL").
		Exists(ctx)
	if err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryExternal, "failed to check creator profile existence")
	}

	return exists, nil
}
