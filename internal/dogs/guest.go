package dogs

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

const (
	guestTokenBytes = 24
	// MaxGuestDogs bounds how many profiles a guest can keep.
	MaxGuestDogs = 20
)

var guestTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{16,128}$`)

// GuestCache is the key/value store holding guest dog lists.
type GuestCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestDogsKey(token string) string
}

// guestStore keeps temporary dogs keyed by guest token. Every write
// refreshes the TTL.
type guestStore struct {
	cache GuestCache
	ttl   time.Duration
}

// NewGuestToken returns a random URL-safe token.
func NewGuestToken() (string, error) {
	buf := make([]byte, guestTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating guest token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidGuestToken reports whether token has the shape NewGuestToken produces.
func ValidGuestToken(token string) bool {
	return guestTokenPattern.MatchString(token)
}

func (g guestStore) list(ctx context.Context, token string) ([]DogDTO, error) {
	var dogs []DogDTO
	if _, err := g.cache.GetJSON(ctx, g.cache.GuestDogsKey(token), &dogs); err != nil {
		return nil, err
	}
	if dogs == nil {
		dogs = []DogDTO{}
	}
	return dogs, nil
}

func (g guestStore) save(ctx context.Context, token string, dogs []DogDTO) error {
	return g.cache.SetJSON(ctx, g.cache.GuestDogsKey(token), dogs, g.ttl)
}

func (g guestStore) clear(ctx context.Context, token string) error {
	return g.cache.Del(ctx, g.cache.GuestDogsKey(token))
}

func newGuestDog(p Profile, now time.Time) DogDTO {
	return DogDTO{
		ID:               uuid.New(),
		UserID:           TemporaryOwner,
		Name:             p.Name,
		Breed:            p.Breed,
		Age:              p.Age,
		Weight:           p.Weight,
		ActivityLevel:    p.ActivityLevel,
		Gender:           p.Gender,
		HealthConditions: p.HealthConditions,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
