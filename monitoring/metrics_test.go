package monitoring

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter struct {
	count int
	err   error
}

func (c fixedCounter) CountActive(context.Context) (int, error) {
	return c.count, c.err
}

func TestRecordCheckOut(t *testing.T) {
	before := testutil.ToFloat64(revenue.WithLabelValues("IDR"))
	checkOutsBefore := testutil.ToFloat64(checkOuts)

	RecordCheckOut(8000, "IDR")

	assert.Equal(t, before+8000, testutil.ToFloat64(revenue.WithLabelValues("IDR")))
	assert.Equal(t, checkOutsBefore+1, testutil.ToFloat64(checkOuts))
}

func TestRefreshOccupancy(t *testing.T) {
	require.NoError(t, RefreshOccupancy(context.Background(), fixedCounter{count: 7}))
	assert.Equal(t, float64(7), testutil.ToFloat64(occupancy))

	err := RefreshOccupancy(context.Background(), fixedCounter{err: errors.New("db down")})
	assert.Error(t, err)
	assert.Equal(t, float64(7), testutil.ToFloat64(occupancy))
}
