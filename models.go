package storefront

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CreatorProfile marks a user as a storefront owner. Role resolution is a
// pure existence check against this table.
type CreatorProfile struct {
	bun.BaseModel `bun:"table:creator_profiles,alias:crp"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	UserID        uuid.UUID      `bun:"user_id,notnull,unique,type:uuid" json:"user_id,omitempty"`
	StoreName     string         `bun:"store_name,notnull" json:"store_name,omitempty"`
	StoreSlug     string         `bun:"store_slug,notnull,unique" json:"store_slug,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// AddMetadata will append information to a metadata attribute
func (c *CreatorProfile) AddMetadata(key string, val any) *CreatorProfile {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = val
	return c
}

// ClientStorage is the durable key/value record backing browser-side state.
// The cart lives under a single fixed key; nothing else is persisted here.
type ClientStorage struct {
	bun.BaseModel `bun:"table:client_storage,alias:cst"`
	Key           string     `bun:"key,pk" json:"key,omitempty"`
	Value         []byte     `bun:"value,notnull" json:"value,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
