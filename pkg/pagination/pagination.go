// Package pagination implements opaque cursors. A cursor is URL-safe base64
// over a small JSON token tagged with its kind, so a keyset cursor cannot be
// replayed against an offset-ordered listing or the other way round.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

const (
	kindKeyset = "k"
	kindOffset = "o"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Params holds cursor pagination inputs from controllers or services.
type Params struct {
	Limit  int
	Cursor string
}

// Cursor is a keyset position over rows ordered by (created_at, id).
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Page carries one page of results and the cursor for the next one.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type token struct {
	Kind      string     `json:"k"`
	CreatedAt *time.Time `json:"t,omitempty"`
	ID        *uuid.UUID `json:"id,omitempty"`
	Offset    int        `json:"o,omitempty"`
}

// NormalizeLimit clamps limit into [1, MaxLimit], using DefaultLimit when unset.
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// LimitWithBuffer is the row count to fetch so Trim can tell whether a next
// page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// Trim cuts rows fetched with LimitWithBuffer down to limit and reports
// whether another page exists.
func Trim[T any](rows []T, limit int) ([]T, bool) {
	limit = NormalizeLimit(limit)
	if len(rows) > limit {
		return rows[:limit], true
	}
	return rows, false
}

// EncodeCursor renders a keyset cursor.
func EncodeCursor(c Cursor) string {
	at := c.CreatedAt.UTC()
	return encode(token{Kind: kindKeyset, CreatedAt: &at, ID: &c.ID})
}

// ParseCursor decodes a keyset cursor. Blank input returns nil, nil.
func ParseCursor(value string) (*Cursor, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := decode(value, kindKeyset)
	if err != nil {
		return nil, err
	}
	if t.CreatedAt == nil || t.ID == nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: *t.CreatedAt, ID: *t.ID}, nil
}

// EncodeOffset renders a cursor for listings not keyed on creation time,
// such as catalog results sorted by price or rating. Offset 0 is the first
// page and encodes as "".
func EncodeOffset(offset int) string {
	if offset <= 0 {
		return ""
	}
	return encode(token{Kind: kindOffset, Offset: offset})
}

// ParseOffset decodes a cursor produced by EncodeOffset. Blank input is 0.
func ParseOffset(value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	t, err := decode(value, kindOffset)
	if err != nil {
		return 0, err
	}
	if t.Offset <= 0 {
		return 0, ErrInvalidCursor
	}
	return t.Offset, nil
}

func encode(t token) string {
	raw, _ := json.Marshal(t)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decode(value, kind string) (token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return token{}, ErrInvalidCursor
	}
	var t token
	if err := json.Unmarshal(raw, &t); err != nil || t.Kind != kind {
		return token{}, ErrInvalidCursor
	}
	return t, nil
}
