package postgres

import (
	"testing"
	"time"

	"stockroom/internal/core/entity"
	"stockroom/internal/core/id"

	"github.com/stretchr/testify/assert"
)

type MockCatalog struct {
	entity.BaseCatalog
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

type MockDocument struct {
	entity.BaseDocument
	Number string `db:"number" json:"number"`
	Ignore string `db:"-" json:"-"`
}

func TestExtractDBColumns_Catalog(t *testing.T) {
	cols := ExtractDBColumns[MockCatalog]()

	expectedCols := []string{
		"id", "deletion_mark", "version", "attributes", "code", "name",
	}

	assert.Len(t, cols, len(expectedCols))
	for _, expected := range expectedCols {
		assert.Contains(t, cols, expected)
	}
}

func TestExtractDBColumns_SkipsIgnoredFields(t *testing.T) {
	cols := ExtractDBColumns[MockDocument]()

	assert.Contains(t, cols, "number")
	assert.Contains(t, cols, "created_at")
	assert.Contains(t, cols, "created_by")
	assert.NotContains(t, cols, "-")
	assert.NotContains(t, cols, "Ignore")
}

func TestStructToMap_EmbeddedFields(t *testing.T) {
	cat := MockCatalog{
		BaseCatalog: entity.BaseCatalog{
			BaseEntity: entity.BaseEntity{
				ID:           id.New(),
				DeletionMark: true,
				Version:      5,
			},
		},
		Code: "TEST",
		Name: "Test Name",
	}

	m := StructToMap(cat)

	assert.Equal(t, cat.ID, m["id"])
	assert.Equal(t, true, m["deletion_mark"])
	assert.Equal(t, 5, m["version"])
	assert.Equal(t, "TEST", m["code"])
	assert.Equal(t, "Test Name", m["name"])
}

func TestStructToMap_Document(t *testing.T) {
	now := time.Now().UTC()
	doc := MockDocument{
		BaseDocument: entity.BaseDocument{
			BaseEntity: entity.NewBaseEntity(),
			CreatedAt:  now,
			UpdatedAt:  now,
			CreatedBy:  "alice",
		},
		Number: "IN-20260110-0001",
		Ignore: "dropped",
	}

	m := StructToMap(doc)

	assert.Equal(t, "IN-20260110-0001", m["number"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "alice", m["created_by"])
	assert.NotContains(t, m, "-")
	assert.NotContains(t, m, "Ignore")
}
