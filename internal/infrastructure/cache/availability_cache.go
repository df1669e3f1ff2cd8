// Package cache guarda en Redis la disponibilidad calculada de los menús de cada sucursal.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
	"github.com/jhoicas/Restaurante-api/pkg/config"
)

var _ inventory.AvailabilityCache = (*AvailabilityCache)(nil)

// MaxAvailabilityTTL acota la vida de una entrada. Las salidas de stock externas al libro
// no invalidan la caché; su efecto se ve a más tardar tras este plazo.
const MaxAvailabilityTTL = 30 * time.Second

// generationTTL mantiene viva la generación mucho más que cualquier entrada.
const generationTTL = 24 * time.Hour

// AvailabilityCache implementación sobre Redis. Cada sucursal ocupa una clave de datos con TTL
// y una clave de generación que Invalidate incrementa tras cada commit del libro.
type AvailabilityCache struct {
	rdb    redis.Cmdable
	ttl    time.Duration
	prefix string
}

type availabilityEntry struct {
	Generation int64                     `json:"generation"`
	Items      []entity.MenuAvailability `json:"items"`
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return rdb, nil
}

// NewAvailabilityCache construye la caché sobre un cliente ya abierto.
func NewAvailabilityCache(rdb redis.Cmdable, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 || ttl > MaxAvailabilityTTL {
		ttl = MaxAvailabilityTTL
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl, prefix: "menu_availability"}
}

func (c *AvailabilityCache) key(branchID int64) string {
	return fmt.Sprintf("%s:%d", c.prefix, branchID)
}

func (c *AvailabilityCache) generationKey(branchID int64) string {
	return fmt.Sprintf("%s:%d:gen", c.prefix, branchID)
}

// Generation devuelve la generación vigente de la sucursal (0 si nunca se invalidó).
func (c *AvailabilityCache) Generation(ctx context.Context, branchID int64) (int64, error) {
	gen, err := c.rdb.Get(ctx, c.generationKey(branchID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Get devuelve (items, true, nil) si hay valor vigente guardado bajo generation.
func (c *AvailabilityCache) Get(ctx context.Context, branchID, generation int64) ([]entity.MenuAvailability, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(branchID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	var entry availabilityEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("decodificar disponibilidad: %w", err)
	}
	if entry.Generation != generation {
		return nil, false, nil
	}
	return entry.Items, true, nil
}

// Set guarda la disponibilidad calculada bajo generation con el TTL configurado.
func (c *AvailabilityCache) Set(ctx context.Context, branchID, generation int64, items []entity.MenuAvailability) error {
	raw, err := json.Marshal(availabilityEntry{Generation: generation, Items: items})
	if err != nil {
		return fmt.Errorf("codificar disponibilidad: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(branchID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate avanza la generación de la sucursal y borra la entrada actual.
func (c *AvailabilityCache) Invalidate(ctx context.Context, branchID int64) error {
	genKey := c.generationKey(branchID)
	if err := c.rdb.Incr(ctx, genKey).Err(); err != nil {
		return fmt.Errorf("redis incr: %w", err)
	}
	if err := c.rdb.Expire(ctx, genKey, generationTTL).Err(); err != nil {
		return fmt.Errorf("redis expire: %w", err)
	}
	if err := c.rdb.Del(ctx, c.key(branchID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
