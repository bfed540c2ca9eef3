package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stwalsh4118/carparks/internal/models"
)

func TestQueryBuilder_Placeholders(t *testing.T) {
	pg := postgresDialect.builder()
	assert.Equal(t, "$1", pg.arg("a"))
	assert.Equal(t, "$2", pg.arg(2))
	assert.Equal(t, []any{"a", 2}, pg.args)

	lite := sqliteDialect.builder()
	assert.Equal(t, "?", lite.arg("a"))
	assert.Equal(t, "?", lite.arg(2))
}

func TestQueryBuilder_ApplyFilter(t *testing.T) {
	b := postgresDialect.builder()
	assert.Equal(t, "", b.whereClause())

	minHeight := 1.5
	b.applyFilter(Filter{CarParkType: "Surface", FreeParkingOnly: true, MinGantryHeight: &minHeight})

	assert.Equal(t,
		" WHERE LOWER(car_park_type) = LOWER($1) AND UPPER(TRIM(free_parking)) NOT IN ('NO', 'FALSE') AND gantry_height >= $2",
		b.whereClause())
	assert.Equal(t, []any{"Surface", 1.5}, b.args)
}

func TestQueryBuilder_Assignments(t *testing.T) {
	b := sqliteDialect.builder()
	address := "QUEENSTOWN AREA"
	decks := 2

	sets := b.assignments(models.CarParkPatch{Address: &address, CarParkDecks: &decks})

	assert.Equal(t, []string{"address = ?", "car_park_decks = ?"}, sets)
	assert.Equal(t, []any{"QUEENSTOWN AREA", 2}, b.args)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\% off`, escapeLike("100% off"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\dir`, escapeLike(`c:\dir`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
