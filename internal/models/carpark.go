package models

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// SentinelAddress is the value a spreadsheet export left in place of
// addresses it failed to evaluate.
const SentinelAddress = "#NAME?"

// Domain bounds for numeric fields.
const (
	MinCarParkDecks = 0
	MaxCarParkDecks = 50
	MinGantryHeight = 0.0
	MaxGantryHeight = 10.0
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(JSONFieldName)
	return v
}

// JSONFieldName returns the JSON name of a struct field, for use with
// validator.Validate.RegisterTagNameFunc.
func JSONFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// CarPark is a single car park record.
// Free-text availability fields (ShortTermParking, FreeParking) hold source
// values such as "WHOLE DAY", "7AM-7PM" or "NO" verbatim.
type CarPark struct {
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	CarParkNo           string    `json:"car_park_no" validate:"max=100"`
	Address             string    `json:"address" validate:"max=255"`
	CarParkType         string    `json:"car_park_type" validate:"max=150"`
	TypeOfParkingSystem string    `json:"type_of_parking_system" validate:"max=150"`
	ShortTermParking    string    `json:"short_term_parking" validate:"max=100"`
	FreeParking         string    `json:"free_parking" validate:"max=100"`
	XCoord              float64   `json:"x_coord"`
	YCoord              float64   `json:"y_coord"`
	GantryHeight        float64   `json:"gantry_height" validate:"gte=0,lte=10"`
	ID                  int64     `json:"id"`
	CarParkDecks        int       `json:"car_park_decks" validate:"gte=0,lte=50"`
	NightParking        bool      `json:"night_parking"`
	CarParkBasement     bool      `json:"car_park_basement"`
}

// Identity is the composite key that defines whether two records describe
// the same car park. It is comparable and can key a map.
type Identity struct {
	CarParkNo           string
	Address             string
	CarParkType         string
	TypeOfParkingSystem string
	GantryHeight        float64
}

// Identity returns the record's identity tuple.
func (c CarPark) Identity() Identity {
	return Identity{
		CarParkNo:           c.CarParkNo,
		Address:             c.Address,
		CarParkType:         c.CarParkType,
		TypeOfParkingSystem: c.TypeOfParkingSystem,
		GantryHeight:        c.GantryHeight,
	}
}

// HasFreeParking reports whether the record offers any free parking.
func (c CarPark) HasFreeParking() bool {
	return IsFreeParking(c.FreeParking)
}

// HasSentinelAddress reports whether the address is the export sentinel.
func (c CarPark) HasSentinelAddress() bool {
	return c.Address == SentinelAddress
}

// Validate checks field lengths and the decks and gantry height domains.
// Failures are returned as validator.ValidationErrors keyed by JSON name.
func (c CarPark) Validate() error {
	return validate.Struct(c)
}

// ParkingSystemCount is the number of records per parking system type.
type ParkingSystemCount struct {
	TypeOfParkingSystem string `json:"type_of_parking_system"`
	Total               int64  `json:"total"`
}

// CarParkPatch carries a partial update. Nil fields are left unchanged.
type CarParkPatch struct {
	CarParkNo           *string
	Address             *string
	CarParkType         *string
	TypeOfParkingSystem *string
	ShortTermParking    *string
	FreeParking         *string
	XCoord              *float64
	YCoord              *float64
	GantryHeight        *float64
	CarParkDecks        *int
	NightParking        *bool
	CarParkBasement     *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p CarParkPatch) IsEmpty() bool {
	return p.CarParkNo == nil && p.Address == nil && p.CarParkType == nil &&
		p.TypeOfParkingSystem == nil && p.ShortTermParking == nil &&
		p.FreeParking == nil && p.XCoord == nil && p.YCoord == nil &&
		p.GantryHeight == nil && p.CarParkDecks == nil &&
		p.NightParking == nil && p.CarParkBasement == nil
}

// Apply copies every non-nil field of the patch onto c.
func (p CarParkPatch) Apply(c *CarPark) {
	if p.CarParkNo != nil {
		c.CarParkNo = *p.CarParkNo
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.CarParkType != nil {
		c.CarParkType = *p.CarParkType
	}
	if p.TypeOfParkingSystem != nil {
		c.TypeOfParkingSystem = *p.TypeOfParkingSystem
	}
	if p.ShortTermParking != nil {
		c.ShortTermParking = *p.ShortTermParking
	}
	if p.FreeParking != nil {
		c.FreeParking = *p.FreeParking
	}
	if p.XCoord != nil {
		c.XCoord = *p.XCoord
	}
	if p.YCoord != nil {
		c.YCoord = *p.YCoord
	}
	if p.GantryHeight != nil {
		c.GantryHeight = *p.GantryHeight
	}
	if p.CarParkDecks != nil {
		c.CarParkDecks = *p.CarParkDecks
	}
	if p.NightParking != nil {
		c.NightParking = *p.NightParking
	}
	if p.CarParkBasement != nil {
		c.CarParkBasement = *p.CarParkBasement
	}
}
