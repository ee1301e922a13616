package persistence

import (
	"testing"

	"github.com/schoolfund/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GORM ignores unexported embedded structs, so a model composed of one
// migrates to a table with no columns and rejects every write. This pins the
// line models' columns as visible to the schema parser.
func TestLineModelsExposeColumns(t *testing.T) {
	db := testDB(t)

	for _, model := range []interface{}{
		&models.BillingLineModel{},
		&models.StockLineModel{},
	} {
		cols, err := db.Migrator().ColumnTypes(model)
		require.NoError(t, err)

		names := make(map[string]bool, len(cols))
		for _, col := range cols {
			names[col.Name()] = true
		}
		for _, want := range []string{
			"id", "event_id", "name", "spent_in", "sell_for",
			"initial_stock", "remaining_stock", "total_sales",
			"created_by", "updated_by",
		} {
			assert.True(t, names[want], "%T is missing column %s", model, want)
		}
	}
}
