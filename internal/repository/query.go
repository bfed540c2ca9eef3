package repository

import (
	"fmt"
	"strings"

	"github.com/stwalsh4118/carparks/internal/models"
)

// dialect captures the SQL differences between the supported stores.
type dialect struct {
	placeholder func(n int) string
}

var (
	postgresDialect = dialect{placeholder: func(n int) string { return fmt.Sprintf("$%d", n) }}
	sqliteDialect   = dialect{placeholder: func(int) string { return "?" }}
)

func (d dialect) builder() *queryBuilder {
	return &queryBuilder{dialect: d}
}

// queryBuilder collects bind arguments and WHERE conditions in order.
type queryBuilder struct {
	dialect    dialect
	args       []any
	conditions []string
}

// arg binds v and returns its placeholder.
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return b.dialect.placeholder(len(b.args))
}

func (b *queryBuilder) where(condition string) {
	b.conditions = append(b.conditions, condition)
}

func (b *queryBuilder) whereClause() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

func (b *queryBuilder) applyFilter(f Filter) {
	if f.CarParkType != "" {
		b.where("LOWER(car_park_type) = LOWER(" + b.arg(f.CarParkType) + ")")
	}
	if f.Address != "" {
		b.where("address = " + b.arg(f.Address))
	}
	if f.AddressContains != "" {
		b.where(`LOWER(address) LIKE '%' || LOWER(` + b.arg(escapeLike(f.AddressContains)) + `) || '%' ESCAPE '\'`)
	}
	if f.FreeParkingOnly {
		notFree := models.NotFreeParkingValues()
		quoted := make([]string, len(notFree))
		for i, v := range notFree {
			quoted[i] = "'" + v + "'"
		}
		b.where("UPPER(TRIM(free_parking)) NOT IN (" + strings.Join(quoted, ", ") + ")")
	}
	if f.MinGantryHeight != nil {
		b.where("gantry_height >= " + b.arg(*f.MinGantryHeight))
	}
	if f.MaxGantryHeight != nil {
		b.where("gantry_height <= " + b.arg(*f.MaxGantryHeight))
	}
}

// assignments returns the SET items for the non-nil fields of p.
func (b *queryBuilder) assignments(p models.CarParkPatch) []string {
	var sets []string
	set := func(column string, v any) {
		sets = append(sets, column+" = "+b.arg(v))
	}

	if p.CarParkNo != nil {
		set("car_park_no", *p.CarParkNo)
	}
	if p.Address != nil {
		set("address", *p.Address)
	}
	if p.XCoord != nil {
		set("x_coord", *p.XCoord)
	}
	if p.YCoord != nil {
		set("y_coord", *p.YCoord)
	}
	if p.CarParkType != nil {
		set("car_park_type", *p.CarParkType)
	}
	if p.TypeOfParkingSystem != nil {
		set("type_of_parking_system", *p.TypeOfParkingSystem)
	}
	if p.ShortTermParking != nil {
		set("short_term_parking", *p.ShortTermParking)
	}
	if p.FreeParking != nil {
		set("free_parking", *p.FreeParking)
	}
	if p.NightParking != nil {
		set("night_parking", *p.NightParking)
	}
	if p.CarParkDecks != nil {
		set("car_park_decks", *p.CarParkDecks)
	}
	if p.GantryHeight != nil {
		set("gantry_height", *p.GantryHeight)
	}
	if p.CarParkBasement != nil {
		set("car_park_basement", *p.CarParkBasement)
	}
	return sets
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern escaped by '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
