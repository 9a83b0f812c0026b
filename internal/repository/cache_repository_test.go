package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/unismart/planner-api/pkg/errors"
)

func TestCacheRepositoryWithoutClientIsInert(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "courses:v1:all", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "courses:v1:all", []string{"CS101"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "courses:*"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
