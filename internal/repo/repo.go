// Package repo provides Redis-backed persistence for the camera registry.
//
// The registry is advisory runtime state: the engine owns the live sessions,
// Redis only remembers which cameras were active (and any per-camera source
// overrides) so the server can resume them after a restart.
package repo

import "go.uber.org/zap"

type Repository struct {
	log    *zap.Logger
	client *RedisClient

	Cameras *CameraRepository
}

func NewRepository(log *zap.Logger, addr string) *Repository {
	log = log.Named("repo")
	client := newRedisClient(addr, 0, log)

	return &Repository{
		log,
		client,
		newCameraRepository(log, client),
	}
}

// Close releases the underlying Redis connection pool.
func (r *Repository) Close() error {
	return r.client.Close()
}
