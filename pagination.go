package catalog

import (
	"github.com/goliatone/go-catalog/opaqueid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Pagination defaults. Pages never report a total count; callers infer the
// end of the list from a short page.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Cursor is the wire form of a keyset pagination request. LastID, when
// present, is an opaque encoded identifier; rows strictly beyond it in the
// requested direction are returned.
type Cursor struct {
	Limit       *int   `json:"limit,omitempty"`
	LastID      string `json:"last_id,omitempty"`
	OrderByDesc *bool  `json:"order_by_desc,omitempty"`
}

// Keyset is a resolved cursor: clamped limit, decoded boundary id, explicit
// direction. Ordering and boundary share the id column; ids are v7 UUIDs so
// the sort is creation ordered and needs no secondary tie break.
type Keyset struct {
	Limit      int
	LastID     *uuid.UUID
	Descending bool
}

// Resolve validates and normalizes the cursor. The limit defaults to
// DefaultPageSize and is clamped into [1, MaxPageSize]; direction defaults
// to descending (newest first). A LastID that fails to decode propagates the
// codec error; the REST layer maps it to a not found response.
func (c Cursor) Resolve() (Keyset, error) {
	limit := DefaultPageSize
	if c.Limit != nil {
		limit = *c.Limit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	descending := true
	if c.OrderByDesc != nil {
		descending = *c.OrderByDesc
	}

	ks := Keyset{Limit: limit, Descending: descending}

	if c.LastID != "" {
		id, err := opaqueid.Decode(c.LastID)
		if err != nil {
			return Keyset{}, err
		}
		ks.LastID = &id
	}

	return ks, nil
}

// Apply translates the keyset into query criteria: published rows only, a
// strict inequality on the boundary when present, deterministic id ordering
// and the clamped limit. A boundary id that matches no row is fine; the
// inequality alone decides what comes back.
func (k Keyset) Apply(q *bun.SelectQuery) *bun.SelectQuery {
	q = q.Where("?TableAlias.published = ?", true)

	if k.LastID != nil {
		if k.Descending {
			q = q.Where("?TableAlias.id < ?", *k.LastID)
		} else {
			q = q.Where("?TableAlias.id > ?", *k.LastID)
		}
	}

	if k.Descending {
		q = q.OrderExpr("?TableAlias.id DESC")
	} else {
		q = q.OrderExpr("?TableAlias.id ASC")
	}

	return q.Limit(k.Limit)
}
