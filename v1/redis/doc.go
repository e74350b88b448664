// Package redis wraps a standalone go-redis client for the small key-value
// needs of the service, currently the query-parse cache.
//
// Every command reports to an optional observability.Observer with
// component "redis".
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	err = client.Set(ctx, "parse:abc", payload, 24*time.Hour)
//	value, err := client.Get(ctx, "parse:abc")
//	if redis.IsNilError(err) {
//		// miss
//	}
package redis
