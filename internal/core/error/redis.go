package errx

import (
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis maps Redis errors to AppError with appropriate status codes.
// Every Redis failure is also a persistence failure.
func WrapRedis(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, redis.Nil) {
		return &AppError{Err: err, Status: http.StatusNotFound, Message: RedisNotFoundMessage, kind: ErrPersistenceUnavailable}
	}

	return &AppError{Err: err, Status: http.StatusBadGateway, Message: RedisErrorMessage, kind: ErrPersistenceUnavailable}
}
