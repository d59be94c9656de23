package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/web-academy/academy-api/internal/models"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%abc%", likePattern("abc"))
	assert.Equal(t, "%50\\%%", likePattern("50%"))
	assert.Equal(t, "%a\\_b%", likePattern("a_b"))
	assert.Equal(t, "%a\\\\b%", likePattern(`a\b`))
}

func TestPageClause(t *testing.T) {
	assert.Empty(t, pageClause(models.PageQuery{}))
	assert.Equal(t, " LIMIT 10 OFFSET 0", pageClause(models.NewPageQuery(10, 1)))
	assert.Equal(t, " LIMIT 10 OFFSET 10", pageClause(models.NewPageQuery(10, 2)))
	assert.Equal(t, " LIMIT 100 OFFSET 0", pageClause(models.NewPageQuery(500, 0)))
}
