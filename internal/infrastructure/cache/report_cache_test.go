package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/smartstore/backend/internal/infrastructure/cache"
)

// ──────────────────────────────────────────────────────────────────────────
// Caché desactivada (sin Redis configurado)
// ──────────────────────────────────────────────────────────────────────────

// Caso 1: sin dirección de Redis, New devuelve nil y la caché queda
// desactivada sin romper a los consumidores.
func TestNew_SinDireccionDevuelveNil(t *testing.T) {
	c := cache.New("", "", 0, 5*time.Minute)
	assert.Nil(t, c)
}

// Caso 2: todas las operaciones sobre una caché nil son inofensivas; los
// reportes se calculan directo de la base sin pasar por Redis.
func TestReportCacheNil_OperacionesSonNoOp(t *testing.T) {
	var c *cache.ReportCache
	ctx := context.Background()

	dest := map[string]int{"ventas": 7}
	ok := c.Get(ctx, "reportes:dia", &dest)
	assert.False(t, ok)
	assert.Equal(t, map[string]int{"ventas": 7}, dest, "Get sobre caché nil no debe tocar dest")

	assert.NotPanics(t, func() {
		c.Set(ctx, "reportes:dia", map[string]int{"ventas": 9})
	})

	assert.NoError(t, c.Close())
}
