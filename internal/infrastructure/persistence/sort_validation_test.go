package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("ascending; DROP TABLE raw_materials"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "name", ValidateSortField("name", MaterialSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", MaterialSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password", MaterialSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("name; --", MaterialSortFields, "created_at"))
	assert.Equal(t, "status", ValidateSortField("status", BatchSortFields, "created_at"))
}
