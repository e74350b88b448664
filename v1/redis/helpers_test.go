package redis

import "github.com/redis/go-redis/v9"

func redisNil() error { return redis.Nil }
