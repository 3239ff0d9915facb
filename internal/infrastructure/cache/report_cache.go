// Package cache implementa una caché opcional de reportes sobre Redis.
// Los analizadores toleran lecturas ligeramente desactualizadas, así que un
// reporte cacheado unos minutos es aceptable.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache guarda reportes serializados en Redis con TTL. Un ReportCache
// nil es válido y se comporta como caché desactivada.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New construye la caché. addr vacío devuelve nil (caché desactivada).
func New(addr, password string, db int, ttl time.Duration) *ReportCache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &ReportCache{client: client, ttl: ttl}
}

// Get carga el reporte cacheado bajo key en dest. ok=false si no hay entrada
// o la caché no está disponible; los fallos de Redis nunca rompen el reporte.
func (c *ReportCache) Get(ctx context.Context, key string, dest any) (ok bool) {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil (miss) y fallos de conexión se tratan igual: sin caché.
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false
	}
	return true
}

// Set guarda el reporte bajo key con el TTL configurado. Mejor esfuerzo.
func (c *ReportCache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, data, c.ttl).Err()
}

// Close cierra la conexión a Redis.
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
