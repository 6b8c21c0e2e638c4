package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGhanaPhone(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^233(20|50|24|54|59|53|27|57)\d{7}$`, GhanaPhone())
	}
}

func TestFakeSource_Generate(t *testing.T) {
	source := NewFakeSource(42)

	event, err := source.Generate(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.NotEmpty(t, event.Name.First)
	assert.NotEmpty(t, event.Name.Last)
	assert.Contains(t, []string{"male", "female"}, event.Gender)
	assert.NotEmpty(t, event.Email)
	assert.Regexp(t, `^233\d{9}$`, event.Phone)
	assert.NotNil(t, event.Location.City)
	assert.NotNil(t, event.Location.Street)
	assert.NotZero(t, event.Location.Lat)
	assert.NotZero(t, event.Location.Lon)
}

func TestFakeSource_UniqueIDs(t *testing.T) {
	source := NewFakeSource(42)

	a, err := source.Generate(context.Background())
	require.NoError(t, err)
	b, err := source.Generate(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
