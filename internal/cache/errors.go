package cache

import "errors"

var (
	ErrInvalidRedisURL  = errors.New("invalid redis url")
	ErrRedisUnavailable = errors.New("redis is unavailable")
)
