package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/edirooss/vision-server/internal/domain/camera"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	ErrCameraNotFound = errors.New("camera not found")

	cameraKeyPrefix = "vision:camera:"
	cameraIDsKey    = "vision:cameras" // SET of string channel IDs: {"1", "2", ...}
)

func cameraKeyInt(id int64) string  { return cameraKeyPrefix + strconv.FormatInt(id, 10) }
func cameraKeyStr(id string) string { return cameraKeyPrefix + id }

// CameraRepository provides Redis-backed persistence for Camera entities.
type CameraRepository struct {
	client *RedisClient
	log    *zap.Logger
}

func newCameraRepository(log *zap.Logger, client *RedisClient) *CameraRepository {
	log = log.Named("cameras")

	return &CameraRepository{
		log:    log,
		client: client,
	}
}

// Upsert persists a Camera and adds its channel to the Redis index set.
func (r *CameraRepository) Upsert(ctx context.Context, cam *camera.Camera) error {
	key := cameraKeyInt(cam.Channel)

	payload, err := json.Marshal(cam)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, payload, 0)
	pipe.SAdd(ctx, cameraIDsKey, strconv.FormatInt(cam.Channel, 10))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}

// Delete removes a camera by channel.
// Returns ErrCameraNotFound if the camera key was not present in Redis.
// Logs a warning if the camera record and index set are inconsistent.
func (r *CameraRepository) Delete(ctx context.Context, id int64) error {
	key := cameraKeyInt(id)
	idStr := strconv.FormatInt(id, 10)

	pipe := r.client.TxPipeline()
	delRes := pipe.Del(ctx, key)
	sremRes := pipe.SRem(ctx, cameraIDsKey, idStr)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("exec: %w", err)
	}

	delCount := delRes.Val()
	sremCount := sremRes.Val()

	if delCount == 0 && sremCount == 0 {
		return ErrCameraNotFound
	}

	// Counts differing means data/index mismatch.
	if delCount != sremCount {
		r.log.Warn(
			"camera delete mismatch",
			zap.String("key", key),
			zap.String("id", idStr),
			zap.Int64("del_count", delCount),
			zap.Int64("srem_count", sremCount),
		)
	}

	return nil
}

// GetByID fetches a camera by its channel.
// Returns ErrCameraNotFound if the key does not exist.
func (r *CameraRepository) GetByID(ctx context.Context, id int64) (*camera.Camera, error) {
	key := cameraKeyInt(id)

	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCameraNotFound
		}
		return nil, fmt.Errorf("get: %w", err)
	}

	var cam camera.Camera
	if err := json.Unmarshal(value, &cam); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &cam, nil
}

// GetAll returns all cameras currently indexed in Redis.
//
// Not strongly consistent: SMEMBERS and MGET are separate calls, so cameras
// added or removed in between may appear as transient inconsistencies.
// Callers should treat the result as an eventually consistent snapshot.
func (r *CameraRepository) GetAll(ctx context.Context) ([]*camera.Camera, error) {
	ids, err := r.client.SMembers(ctx, cameraIDsKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("smembers: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cameraKeyStr(id)
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}

	out := make([]*camera.Camera, 0, len(vals))
	for i, v := range vals {
		if v == nil {
			// Missing during MGET: eventual-consistency artifact, not fatal.
			r.log.Warn("camera missing during MGET", zap.String("key", keys[i]))
			continue
		}

		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("key %s: unexpected type (got %T, want string)", keys[i], v)
		}
		var cam camera.Camera
		if err := json.Unmarshal([]byte(s), &cam); err != nil {
			return nil, fmt.Errorf("key %s: decode camera: %w", keys[i], err)
		}
		out = append(out, &cam)
	}
	return out, nil
}
