package interfaces

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadOnlySnapshotMarker(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsReadOnlySnapshot(ctx))
	assert.True(t, IsReadOnlySnapshot(WithReadOnlySnapshot(ctx)))
}
