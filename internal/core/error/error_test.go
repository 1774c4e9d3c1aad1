package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestWrapPersistence(t *testing.T) {
	cause := errors.New("disk gone")
	err := WrapPersistence(cause)

	require.ErrorIs(t, err, ErrPersistenceUnavailable)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrGeneration)
	require.Equal(t, http.StatusServiceUnavailable, StatusOf(err))
	require.Nil(t, WrapPersistence(nil))
}

func TestWrapGeneration(t *testing.T) {
	err := WrapGeneration(errors.New("deadline exceeded"))

	require.ErrorIs(t, err, ErrGeneration)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, GenerationErrorMessage, appErr.Message)
}

func TestWrapRedis(t *testing.T) {
	notFound := WrapRedis(redis.Nil)
	require.Equal(t, http.StatusNotFound, StatusOf(notFound))
	require.ErrorIs(t, notFound, ErrPersistenceUnavailable)

	down := WrapRedis(errors.New("connection refused"))
	require.Equal(t, http.StatusBadGateway, StatusOf(down))
	require.Nil(t, WrapRedis(nil))
}

func TestInvalidAndMissing(t *testing.T) {
	require.ErrorIs(t, Invalid("message cannot be empty"), ErrMalformedInput)
	require.Equal(t, http.StatusBadRequest, StatusOf(Invalid("x")))
	require.ErrorIs(t, Missing("no subscribers"), ErrMissingData)
	require.Equal(t, "no subscribers", Missing("no subscribers").Error())
	require.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	require.Equal(t, "no subscribers", MessageOf(Missing("no subscribers")))
	require.Equal(t, PersistenceErrorMessage, MessageOf(WrapPersistence(errors.New("disk full"))))
	require.Equal(t, SystemErrorMessage, MessageOf(errors.New("boom")))
}
