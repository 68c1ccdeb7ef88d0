package config

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

var (
	rdb    *redis.Client
	locker *redislock.Client
)
var rctx = context.Background()

// GetRedisDB returns nil when REDIS_ADDRESS is not configured;
// callers treat a nil client as "cache/lock disabled".
func GetRedisDB() *redis.Client {
	return rdb
}

func GetRedisLock() *redislock.Client {
	return locker
}

func ConnectRedis() {
	redisAddress := os.Getenv("REDIS_ADDRESS")
	if redisAddress == "" {
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr: redisAddress,
	})
	if err := rdb.Ping(rctx).Err(); err != nil {
		log.Printf("redis not reachable at %s: %v; continuing without cache", redisAddress, err)
		rdb = nil
		return
	}
	locker = redislock.New(rdb)
	log.Printf("connected to redis at %s", redisAddress)
}

func GetRedisObject(key string, dest interface{}) (bool, error) {
	if rdb == nil {
		return false, nil
	}
	val, err := rdb.Get(rctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	err = json.Unmarshal([]byte(val), &dest)
	if err != nil {
		return false, err
	}
	return true, nil
}

func SetRedisObject(key string, obj interface{}, exp time.Duration) error {
	if rdb == nil {
		return nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return rdb.Set(rctx, key, data, exp).Err()
}

func RemoveRedisKey(keys ...string) error {
	if rdb == nil || len(keys) == 0 {
		return nil
	}
	return rdb.Del(rctx, keys...).Err()
}

// RemoveRedisKeysByPattern deletes every key matching pattern, using
// SCAN rather than KEYS so a large keyspace is not blocked.
func RemoveRedisKeysByPattern(pattern string) error {
	if rdb == nil {
		return nil
	}
	iter := rdb.Scan(rctx, 0, pattern, 100).Iterator()
	var keys []string
	for iter.Next(rctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return RemoveRedisKey(keys...)
}
