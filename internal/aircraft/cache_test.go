package aircraft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheReusesBuiltProfiles(t *testing.T) {
	ctx := context.Background()
	cat := NewStatic(CRJ200(), Spec{Name: "RA-67222", Base: "CRJ200", DOW: 14512})
	c := NewCache(cat, 8, time.Hour)

	p1, err := c.Profile(ctx, "RA-67222")
	require.NoError(t, err)
	p2, err := c.Profile(ctx, "RA-67222")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
	assert.Equal(t, 1, c.Len())

	cat.Put(Spec{Name: "RA-67222", Base: "CRJ200", DOW: 14600})
	c.Purge()
	p3, err := c.Profile(ctx, "RA-67222")
	require.NoError(t, err)
	assert.Equal(t, 14600.0, p3.DOW)

	_, err = c.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrUnknownAircraft)
	assert.Equal(t, 1, c.Len())
}

func TestStaticCopiesSpecs(t *testing.T) {
	ctx := context.Background()
	spec := CRJ200()
	cat := NewStatic(spec)

	spec.Zones[0].Capacity = 99
	got, err := cat.Spec(ctx, "CRJ200")
	require.NoError(t, err)
	assert.Equal(t, 16, got.Zones[0].Capacity)

	got.Fuel[0].Y = -1
	again, err := cat.Spec(ctx, "CRJ200")
	require.NoError(t, err)
	assert.NotEqual(t, -1.0, again.Fuel[0].Y)
}
