package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/carparks/internal/models"
)

// Row is one data row of a parsed file, addressed by column name.
type Row struct {
	Line   int
	values []string
	index  map[string]int
}

// Value returns the raw cell for column, or "" if the file has no such column.
func (r Row) Value(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

// CarParkNo returns the raw car_park_no cell.
func (r Row) CarParkNo() string {
	return r.Value("car_park_no")
}

// Identity returns the row's identity tuple. Only gantry_height is coerced;
// the text fields are taken verbatim.
func (r Row) Identity() (models.Identity, error) {
	gantry, err := r.floatValue("gantry_height")
	if err != nil {
		return models.Identity{}, err
	}
	return models.Identity{
		CarParkNo:           r.Value("car_park_no"),
		Address:             r.Value("address"),
		CarParkType:         r.Value("car_park_type"),
		TypeOfParkingSystem: r.Value("type_of_parking_system"),
		GantryHeight:        gantry,
	}, nil
}

// CarPark decodes every field of the row and checks the domain bounds.
// Failures are returned as *RowError.
func (r Row) CarPark() (*models.CarPark, error) {
	x, err := r.floatValue("x_coord")
	if err != nil {
		return nil, err
	}
	y, err := r.floatValue("y_coord")
	if err != nil {
		return nil, err
	}
	gantry, err := r.floatValue("gantry_height")
	if err != nil {
		return nil, err
	}
	decks, err := r.intValue("car_park_decks")
	if err != nil {
		return nil, err
	}

	park := &models.CarPark{
		CarParkNo:           r.Value("car_park_no"),
		Address:             r.Value("address"),
		XCoord:              x,
		YCoord:              y,
		CarParkType:         r.Value("car_park_type"),
		TypeOfParkingSystem: r.Value("type_of_parking_system"),
		ShortTermParking:    r.Value("short_term_parking"),
		FreeParking:         r.Value("free_parking"),
		NightParking:        models.ParseFlag(r.Value("night_parking")),
		CarParkDecks:        decks,
		GantryHeight:        gantry,
		CarParkBasement:     models.ParseFlag(r.Value("car_park_basement")),
	}

	if err := park.Validate(); err != nil {
		return nil, r.validationError(err)
	}
	return park, nil
}

func (r Row) floatValue(column string) (float64, error) {
	raw := r.Value(column)
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, r.rowError(column, "not a number")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, r.rowError(column, "not a finite number")
	}
	return v, nil
}

// intValue accepts whole numbers, including ones written with a zero
// fraction such as "5.0".
func (r Row) intValue(column string) (int, error) {
	raw := strings.TrimSpace(r.Value(column))
	if v, err := strconv.Atoi(raw); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, r.rowError(column, "not an integer")
	}
	return int(f), nil
}

func (r Row) validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return r.rowError("", err.Error())
	}

	// JSON field names match the CSV columns.
	fe := verrs[0]
	column := fe.Field()
	switch fe.Tag() {
	case "gte", "lte":
		return r.rowError(column, "out of range, must be between "+bounds(column))
	case "max":
		return r.rowError(column, "longer than "+fe.Param()+" characters")
	default:
		return r.rowError(column, "failed "+fe.Tag()+" validation")
	}
}

func bounds(column string) string {
	if column == "car_park_decks" {
		return strconv.Itoa(models.MinCarParkDecks) + " and " + strconv.Itoa(models.MaxCarParkDecks)
	}
	return strconv.FormatFloat(models.MinGantryHeight, 'f', 1, 64) + " and " +
		strconv.FormatFloat(models.MaxGantryHeight, 'f', 1, 64)
}

func (r Row) rowError(column, reason string) *RowError {
	return &RowError{
		Line:      r.Line,
		CarParkNo: r.CarParkNo(),
		Column:    column,
		Value:     r.Value(column),
		Reason:    reason,
	}
}
