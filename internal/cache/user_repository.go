package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
	"github.com/MKhiriev/go-user-keeper/internal/store"
	"github.com/MKhiriev/go-user-keeper/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL is used when the configured TTL is zero.
const DefaultTTL = 15 * time.Minute

// FenceTTL is how long a write keeps read-through fills of its user out of
// the cache. A reader that loaded the row before the write committed and
// stalls longer than this can still store the old row until the entry's
// TTL runs out.
const FenceTTL = 10 * time.Second

const (
	userKeyPrefix  = "user-keeper:user:id:"
	fenceKeyPrefix = "user-keeper:user:fence:"
)

// fillScript stores ARGV[1] under KEYS[1] for ARGV[2] milliseconds unless
// the write fence KEYS[2] exists. Returns 1 when the entry was stored.
var fillScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[2]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// CachedUserRepository wraps a store.UserRepository with a Redis read-through
// cache of FindUserByID. Updates and deletes raise a write fence before the
// write and drop the entry after it succeeds, so a concurrent reader cannot
// put the old row back while the fence lives. Redis failures are logged and
// never fail the call.
type CachedUserRepository struct {
	repo   store.UserRepository
	client Client
	ttl    time.Duration
}

// cachedUser is the stored form of a user. models.User hides PasswordHash
// from JSON, so the cache carries its own shape.
type cachedUser struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Email        string          `json:"email"`
	PasswordHash *string         `json:"password_hash"`
	Role         models.Role     `json:"role"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Profile      *models.Profile `json:"profile"`
}

func NewCachedUserRepository(repo store.UserRepository, client Client, ttl time.Duration) store.UserRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedUserRepository{
		repo:   repo,
		client: client,
		ttl:    ttl,
	}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func fenceKey(id string) string {
	return fenceKeyPrefix + id
}

func (c *CachedUserRepository) FindUserByID(ctx context.Context, id string) (models.User, error) {
	log := logger.FromContext(ctx).With().Str("func", "*CachedUserRepository.FindUserByID").Str("user_id", id).Logger()
	key := userKey(id)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var entry cachedUser
		if err = json.Unmarshal(raw, &entry); err == nil {
			log.Debug().Msg("user cache hit")
			return entry.user(), nil
		}
		log.Warn().Err(err).Msg("failed to unmarshal cached user")
	}

	user, err := c.repo.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	payload, err := json.Marshal(newCachedUser(user))
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal user for cache")
		return user, nil
	}

	stored, err := fillScript.Run(ctx, c.client, []string{key, fenceKey(id)}, payload, c.ttl.Milliseconds()).Int()
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("failed to cache user")
	case stored == 0:
		log.Debug().Msg("user is being written, not caching")
	}

	return user, nil
}

func (c *CachedUserRepository) UpdateUser(ctx context.Context, update models.UserUpdate) (models.User, error) {
	c.fence(ctx, update.ID)

	user, err := c.repo.UpdateUser(ctx, update)
	if err != nil {
		return models.User{}, err
	}

	c.invalidate(ctx, update.ID)
	return user, nil
}

func (c *CachedUserRepository) DeleteUser(ctx context.Context, id string) error {
	c.fence(ctx, id)

	if err := c.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx, id)
	return nil
}

// fence blocks read-through fills of id for FenceTTL.
func (c *CachedUserRepository) fence(ctx context.Context, id string) {
	if err := c.client.Set(ctx, fenceKey(id), 1, FenceTTL).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*CachedUserRepository.fence").
			Str("user_id", id).
			Msg("failed to fence cached user")
	}
}

func (c *CachedUserRepository) invalidate(ctx context.Context, id string) {
	if err := c.client.Del(ctx, userKey(id)).Err(); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*CachedUserRepository.invalidate").
			Str("user_id", id).
			Msg("failed to invalidate cached user")
	}
}

// Delegate all other methods to the wrapped repository

func (c *CachedUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	return c.repo.CreateUser(ctx, user)
}

func (c *CachedUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	return c.repo.FindUserByUsername(ctx, username)
}

func (c *CachedUserRepository) ListUsers(ctx context.Context) ([]models.User, error) {
	return c.repo.ListUsers(ctx)
}

func (c *CachedUserRepository) ExistsByUsername(ctx context.Context, username string, excludeID string) (bool, error) {
	return c.repo.ExistsByUsername(ctx, username, excludeID)
}

func (c *CachedUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return c.repo.ExistsByEmail(ctx, email, excludeID)
}

func newCachedUser(u models.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
		Profile:      u.Profile,
	}
}

func (e cachedUser) user() models.User {
	user := models.User{
		ID:           e.ID,
		Username:     e.Username,
		Email:        e.Email,
		PasswordHash: e.PasswordHash,
		Role:         e.Role,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
		Profile:      e.Profile,
	}
	if user.Profile != nil {
		user.Profile.UserID = user.ID
	}
	return user
}
