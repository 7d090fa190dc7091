package redis

import "errors"

var (
	ErrEmptyConnectionURL = errors.New("redis: connection URL is empty")
	ErrFailedToParseURL   = errors.New("redis: connection URL is not a redis:// or rediss:// URL")
	ErrConnectionFailed   = errors.New("redis: could not reach the server")
	ErrHealthcheckFailed  = errors.New("redis: healthcheck failed")
)
