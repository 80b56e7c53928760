package message

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisHealthCheck(t *testing.T) {
	client, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, NewRedisHealthCheck(client).Check(context.Background()))

	mock.ExpectPing().SetErr(errors.New("connection refused"))
	err := NewRedisHealthCheck(client).Check(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}
