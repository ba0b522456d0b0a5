package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

var ErrCacheMiss = errors.New("cache miss")

/*
* Parse the redis url and build a client
* Ping with a short timeout, a failed ping is returned to the caller
 */
func Connect(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		log.Println("Error while parsing redis url: ", err)
		return nil, err
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Println("Error while pinging redis: ", err)
		return nil, err
	}
	log.Println("Connected to redis")
	return client, nil
}

func SetCache(ctx context.Context, client goredis.Cmdable, key string, value interface{}, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, payload, ttl).Err()
}

// GetCache decodes the cached json into out. A missing key is ErrCacheMiss.
func GetCache(ctx context.Context, client goredis.Cmdable, key string, out interface{}) error {
	payload, err := client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, out)
}

func DeleteCache(ctx context.Context, client goredis.Cmdable, key string) error {
	return client.Del(ctx, key).Err()
}
