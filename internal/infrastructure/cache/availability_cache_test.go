package cache

import (
	"context"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// fakeRedis implementa los comandos que usa la caché; el resto de redis.Cmdable queda sin implementar.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value interface{}, exp time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	default:
		f.data[key] = fmt.Sprint(v)
	}
	f.ttl[key] = exp
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Incr(_ context.Context, key string) *redis.IntCmd {
	n, _ := strconv.ParseInt(f.data[key], 10, 64)
	n++
	f.data[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) Expire(_ context.Context, key string, exp time.Duration) *redis.BoolCmd {
	f.ttl[key] = exp
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func decPtr(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func availability(stock string) []entity.MenuAvailability {
	return []entity.MenuAvailability{{MenuID: 1, MenuName: "Pan", Tracked: true, Available: true, Stock: decPtr(stock)}}
}

func TestAvailabilityCache_SetTardioTrasInvalidateNoSeSirve(t *testing.T) {
	c := NewAvailabilityCache(newFakeRedis(), 10*time.Second)
	ctx := context.Background()

	gen0, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, gen0)

	// Un lector calcula con el estado previo mientras otra operación confirma e invalida.
	require.NoError(t, c.Invalidate(ctx, 1))
	require.NoError(t, c.Set(ctx, 1, gen0, availability("2")))

	gen1, err := c.Generation(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen1)

	_, ok, err := c.Get(ctx, 1, gen1)
	require.NoError(t, err)
	assert.False(t, ok, "la entrada de la generación anterior no se sirve")

	require.NoError(t, c.Set(ctx, 1, gen1, availability("5")))
	items, ok, err := c.Get(ctx, 1, gen1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, items[0].Stock.Equal(*decPtr("5")))
}

func TestAvailabilityCache_InvalidateBorraLaEntrada(t *testing.T) {
	rdb := newFakeRedis()
	c := NewAvailabilityCache(rdb, 10*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 4, 0, availability("1")))
	require.Contains(t, rdb.data, "menu_availability:4")

	require.NoError(t, c.Invalidate(ctx, 4))
	assert.NotContains(t, rdb.data, "menu_availability:4")
	assert.Equal(t, "1", rdb.data["menu_availability:4:gen"])
	assert.Equal(t, generationTTL, rdb.ttl["menu_availability:4:gen"])

	_, ok, err := c.Get(ctx, 4, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewAvailabilityCache_TTLAcotado(t *testing.T) {
	cases := map[string]struct {
		in, want time.Duration
	}{
		"configurado": {10 * time.Second, 10 * time.Second},
		"sin valor":   {0, MaxAvailabilityTTL},
		"excesivo":    {time.Hour, MaxAvailabilityTTL},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rdb := newFakeRedis()
			c := NewAvailabilityCache(rdb, tc.in)
			require.NoError(t, c.Set(context.Background(), 1, 0, nil))
			assert.Equal(t, tc.want, rdb.ttl["menu_availability:1"])
		})
	}
}
