package cachedRepo

import (
	"context"
	"log"
	"time"

	"github.com/fathe4/SM-BKD-sub000/models"
	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	r *redis.Client
}

func NewRedisRepo(ctx context.Context, config models.RedisConfig) (*redisRepo, error) {
	r := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
	})
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &redisRepo{
		r: r,
	}, nil
}

func (rs *redisRepo) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := rs.r.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		log.Printf("Error in Getting key{%v} from cache--> %v\n", key, err.Error())
		return nil, err
	}
	return data, nil
}

func (rs *redisRepo) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := rs.r.Set(ctx, key, value, ttl).Err()
	if err != nil {
		log.Printf("Error in Setting key{%v} in cache--> %v\n", key, err.Error())
		return err
	}
	return nil
}

func (rs *redisRepo) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := rs.r.Del(ctx, keys...).Err()
	if err != nil {
		log.Println("Error in Deleting cache keys: ", err.Error())
		return err
	}
	return nil
}

// DeletePattern walks the keyspace with SCAN and deletes matches in
// batches. Used by the broad invalidation paths (feed:* on boost
// activation), so a missed batch is tolerable: TTLs clean up behind it.
func (rs *redisRepo) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := rs.r.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			log.Printf("Error in Scanning pattern{%v}--> %v\n", pattern, err.Error())
			return err
		}
		if len(keys) > 0 {
			if err := rs.r.Del(ctx, keys...).Err(); err != nil {
				log.Printf("Error in Deleting pattern{%v} batch--> %v\n", pattern, err.Error())
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return nil
}

func (rs *redisRepo) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := rs.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	_, err := pipe.Exec(ctx)
	if err != nil {
		log.Printf("Error in Incrementing key{%v}--> %v\n", key, err.Error())
		return 0, err
	}
	return incr.Val(), nil
}

func (rs *redisRepo) Close() error {
	return rs.r.Close()
}
