package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/carparks/internal/errors"
	"github.com/stwalsh4118/carparks/internal/middleware"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/services"
)

const timestampLayout = time.RFC3339

var registerBindingOnce sync.Once

// registerBindingTagNames makes gin's validator report request fields by
// their JSON names, matching the names clients send.
func registerBindingTagNames() {
	registerBindingOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(models.JSONFieldName)
		}
	})
}

// CarParkHandler handles car park HTTP requests.
type CarParkHandler struct {
	service services.CarParkService
}

// NewCarParkHandler creates a new CarParkHandler instance.
func NewCarParkHandler(service services.CarParkService) *CarParkHandler {
	registerBindingTagNames()
	return &CarParkHandler{
		service: service,
	}
}

// RegisterRoutes mounts the car park endpoints on rg.
// Static segments are registered alongside /:id; gin matches them first.
func (h *CarParkHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carparks := rg.Group("/carparks")
	{
		carparks.GET("", h.List)
		carparks.POST("", h.Create)
		carparks.POST("/create", h.Create)
		carparks.GET("/types", h.Types)
		carparks.GET("/filter", h.FilterByType)
		carparks.GET("/free", h.FreeParking)
		carparks.GET("/free-parking", h.FreeParking)
		carparks.GET("/search", h.Search)
		carparks.GET("/group", h.GroupByParkingSystem)
		carparks.GET("/group-by-system", h.GroupByParkingSystem)
		carparks.GET("/average", h.AverageGantryHeight)
		carparks.GET("/average-gantry-height", h.AverageGantryHeight)
		carparks.GET("/height-range", h.HeightRange)
		carparks.GET("/:id", h.Get)
		carparks.PUT("/:id", h.Replace)
		carparks.PATCH("/:id", h.Update)
		carparks.DELETE("/:id", h.Delete)
	}
}

// CarParkData is the JSON form of a car park record.
// Field order is optimized for memory alignment.
type CarParkData struct {
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
	CarParkNo           string  `json:"car_park_no"`
	Address             string  `json:"address"`
	CarParkType         string  `json:"car_park_type"`
	TypeOfParkingSystem string  `json:"type_of_parking_system"`
	ShortTermParking    string  `json:"short_term_parking"`
	FreeParking         string  `json:"free_parking"`
	XCoord              float64 `json:"x_coord"`
	YCoord              float64 `json:"y_coord"`
	GantryHeight        float64 `json:"gantry_height"`
	ID                  int64   `json:"id"`
	CarParkDecks        int     `json:"car_park_decks"`
	NightParking        bool    `json:"night_parking"`
	CarParkBasement     bool    `json:"car_park_basement"`
	HasFreeParking      bool    `json:"has_free_parking"`
}

// AverageHeightResponse is the body of the average gantry height endpoints.
// AverageHeight is null when there are no records.
type AverageHeightResponse struct {
	AverageHeight *float64 `json:"average_height"`
}

// HeightRangeRequest represents the query parameters for the height-range endpoint.
type HeightRangeRequest struct {
	MinHeight *float64 `form:"min_height"`
	MaxHeight *float64 `form:"max_height"`
}

// CreateCarParkRequest is the body of POST /api/v1/carparks. Only address
// and car_park_type are required; the service fills the rest.
type CreateCarParkRequest struct {
	CarParkNo           *FlexibleText `json:"car_park_no" binding:"omitempty,max=100"`
	Address             FlexibleText  `json:"address" binding:"required,max=255"`
	CarParkType         FlexibleText  `json:"car_park_type" binding:"required,max=150"`
	TypeOfParkingSystem *FlexibleText `json:"type_of_parking_system" binding:"omitempty,max=150"`
	ShortTermParking    *FlexibleText `json:"short_term_parking" binding:"omitempty,max=100"`
	FreeParking         *FlexibleText `json:"free_parking" binding:"omitempty,max=100"`
	XCoord              *float64      `json:"x_coord"`
	YCoord              *float64      `json:"y_coord"`
	GantryHeight        *float64      `json:"gantry_height" binding:"omitempty,gte=0,lte=10"`
	CarParkDecks        *int          `json:"car_park_decks" binding:"omitempty,gte=0,lte=50"`
	NightParking        *bool         `json:"night_parking"`
	CarParkBasement     *bool         `json:"car_park_basement"`
}

// CarPark converts the request to a record. Omitted fields stay zero.
func (r CreateCarParkRequest) CarPark() models.CarPark {
	park := models.CarPark{
		Address:     r.Address.String(),
		CarParkType: r.CarParkType.String(),
	}
	r.patch().Apply(&park)
	return park
}

func (r CreateCarParkRequest) patch() models.CarParkPatch {
	return models.CarParkPatch{
		CarParkNo:           r.CarParkNo.ptr(),
		TypeOfParkingSystem: r.TypeOfParkingSystem.ptr(),
		ShortTermParking:    r.ShortTermParking.ptr(),
		FreeParking:         r.FreeParking.ptr(),
		XCoord:              r.XCoord,
		YCoord:              r.YCoord,
		GantryHeight:        r.GantryHeight,
		CarParkDecks:        r.CarParkDecks,
		NightParking:        r.NightParking,
		CarParkBasement:     r.CarParkBasement,
	}
}

// ReplaceCarParkRequest is the body of PUT /api/v1/carparks/:id. Every
// field must be present.
type ReplaceCarParkRequest struct {
	CarParkNo           FlexibleText `json:"car_park_no" binding:"required,max=100"`
	Address             FlexibleText `json:"address" binding:"required,max=255"`
	CarParkType         FlexibleText `json:"car_park_type" binding:"required,max=150"`
	TypeOfParkingSystem FlexibleText `json:"type_of_parking_system" binding:"required,max=150"`
	ShortTermParking    FlexibleText `json:"short_term_parking" binding:"required,max=100"`
	FreeParking         FlexibleText `json:"free_parking" binding:"required,max=100"`
	XCoord              *float64     `json:"x_coord" binding:"required"`
	YCoord              *float64     `json:"y_coord" binding:"required"`
	GantryHeight        *float64     `json:"gantry_height" binding:"required,gte=0,lte=10"`
	CarParkDecks        *int         `json:"car_park_decks" binding:"required,gte=0,lte=50"`
	NightParking        *bool        `json:"night_parking" binding:"required"`
	CarParkBasement     *bool        `json:"car_park_basement" binding:"required"`
}

// Patch converts the request to a patch touching every field.
func (r ReplaceCarParkRequest) Patch() models.CarParkPatch {
	return models.CarParkPatch{
		CarParkNo:           r.CarParkNo.ptr(),
		Address:             r.Address.ptr(),
		CarParkType:         r.CarParkType.ptr(),
		TypeOfParkingSystem: r.TypeOfParkingSystem.ptr(),
		ShortTermParking:    r.ShortTermParking.ptr(),
		FreeParking:         r.FreeParking.ptr(),
		XCoord:              r.XCoord,
		YCoord:              r.YCoord,
		GantryHeight:        r.GantryHeight,
		CarParkDecks:        r.CarParkDecks,
		NightParking:        r.NightParking,
		CarParkBasement:     r.CarParkBasement,
	}
}

// UpdateCarParkRequest is the body of PATCH /api/v1/carparks/:id.
type UpdateCarParkRequest struct {
	CarParkNo           *FlexibleText `json:"car_park_no" binding:"omitempty,max=100"`
	Address             *FlexibleText `json:"address" binding:"omitempty,max=255"`
	CarParkType         *FlexibleText `json:"car_park_type" binding:"omitempty,max=150"`
	TypeOfParkingSystem *FlexibleText `json:"type_of_parking_system" binding:"omitempty,max=150"`
	ShortTermParking    *FlexibleText `json:"short_term_parking" binding:"omitempty,max=100"`
	FreeParking         *FlexibleText `json:"free_parking" binding:"omitempty,max=100"`
	XCoord              *float64      `json:"x_coord"`
	YCoord              *float64      `json:"y_coord"`
	GantryHeight        *float64      `json:"gantry_height" binding:"omitempty,gte=0,lte=10"`
	CarParkDecks        *int          `json:"car_park_decks" binding:"omitempty,gte=0,lte=50"`
	NightParking        *bool         `json:"night_parking"`
	CarParkBasement     *bool         `json:"car_park_basement"`
}

// Patch converts the request to a patch touching only the sent fields.
func (r UpdateCarParkRequest) Patch() models.CarParkPatch {
	return models.CarParkPatch{
		CarParkNo:           r.CarParkNo.ptr(),
		Address:             r.Address.ptr(),
		CarParkType:         r.CarParkType.ptr(),
		TypeOfParkingSystem: r.TypeOfParkingSystem.ptr(),
		ShortTermParking:    r.ShortTermParking.ptr(),
		FreeParking:         r.FreeParking.ptr(),
		XCoord:              r.XCoord,
		YCoord:              r.YCoord,
		GantryHeight:        r.GantryHeight,
		CarParkDecks:        r.CarParkDecks,
		NightParking:        r.NightParking,
		CarParkBasement:     r.CarParkBasement,
	}
}

// List handles GET /api/v1/carparks.
func (h *CarParkHandler) List(c *gin.Context) {
	parks, err := h.service.List(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list car parks")
		return
	}
	c.JSON(http.StatusOK, mapCarParksToDTO(parks))
}

// Types handles GET /api/v1/carparks/types.
func (h *CarParkHandler) Types(c *gin.Context) {
	types, err := h.service.Types(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list car park types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// FilterByType handles GET /api/v1/carparks/filter?type=.
func (h *CarParkHandler) FilterByType(c *gin.Context) {
	parks, err := h.service.FilterByType(c.Request.Context(), c.Query("type"))
	if err != nil {
		if errors.Is(err, services.ErrMissingParameter) {
			apierrors.BadRequest(c, "Car park type not specified", nil)
			return
		}
		h.handleServiceError(c, err, "Failed to filter car parks")
		return
	}
	c.JSON(http.StatusOK, mapCarParksToDTO(parks))
}

// FreeParking handles GET /api/v1/carparks/free.
func (h *CarParkHandler) FreeParking(c *gin.Context) {
	parks, err := h.service.FreeParking(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list free parking")
		return
	}
	c.JSON(http.StatusOK, mapCarParksToDTO(parks))
}

// Search handles GET /api/v1/carparks/search?address=.
func (h *CarParkHandler) Search(c *gin.Context) {
	parks, err := h.service.SearchByAddress(c.Request.Context(), c.Query("address"))
	if err != nil {
		if errors.Is(err, services.ErrMissingParameter) {
			apierrors.BadRequest(c, "Address query not specified", nil)
			return
		}
		h.handleServiceError(c, err, "Failed to search car parks")
		return
	}
	c.JSON(http.StatusOK, mapCarParksToDTO(parks))
}

// GroupByParkingSystem handles GET /api/v1/carparks/group.
func (h *CarParkHandler) GroupByParkingSystem(c *gin.Context) {
	groups, err := h.service.GroupByParkingSystem(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to group car parks")
		return
	}
	if groups == nil {
		groups = []models.ParkingSystemCount{}
	}
	c.JSON(http.StatusOK, groups)
}

// AverageGantryHeight handles GET /api/v1/carparks/average.
func (h *CarParkHandler) AverageGantryHeight(c *gin.Context) {
	avg, err := h.service.AverageGantryHeight(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to compute average gantry height")
		return
	}
	c.JSON(http.StatusOK, AverageHeightResponse{AverageHeight: avg})
}

// HeightRange handles GET /api/v1/carparks/height-range.
func (h *CarParkHandler) HeightRange(c *gin.Context) {
	var req HeightRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		apierrors.BadRequest(c, "min_height and max_height must be numbers", nil)
		return
	}

	parks, err := h.service.HeightRange(c.Request.Context(), req.MinHeight, req.MaxHeight)
	if err != nil {
		h.handleServiceError(c, err, "Failed to query car parks by height")
		return
	}
	c.JSON(http.StatusOK, mapCarParksToDTO(parks))
}

// Create handles POST /api/v1/carparks.
func (h *CarParkHandler) Create(c *gin.Context) {
	var req CreateCarParkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}

	park, err := h.service.Create(c.Request.Context(), req.CarPark())
	if err != nil {
		h.handleServiceError(c, err, "Failed to create car park")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Created car park via API", map[string]interface{}{
			"id": park.ID,
		})
	}
	c.JSON(http.StatusCreated, mapCarParkToDTO(park))
}

// Get handles GET /api/v1/carparks/:id.
func (h *CarParkHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	park, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err, "Failed to get car park")
		return
	}
	c.JSON(http.StatusOK, mapCarParkToDTO(park))
}

// Replace handles PUT /api/v1/carparks/:id.
func (h *CarParkHandler) Replace(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req ReplaceCarParkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}
	h.update(c, id, req.Patch())
}

// Update handles PATCH /api/v1/carparks/:id.
func (h *CarParkHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateCarParkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BindingError(c, err)
		return
	}
	h.update(c, id, req.Patch())
}

func (h *CarParkHandler) update(c *gin.Context, id int64, patch models.CarParkPatch) {
	park, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update car park")
		return
	}
	c.JSON(http.StatusOK, mapCarParkToDTO(park))
}

// Delete handles DELETE /api/v1/carparks/:id.
func (h *CarParkHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err, "Failed to delete car park")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleServiceError maps service errors to responses. Anything unexpected
// becomes a 500 with message.
func (h *CarParkHandler) handleServiceError(c *gin.Context, err error, message string) {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.Is(err, services.ErrCarParkNotFound):
		apierrors.NotFound(c, "Car park not found")
	case errors.Is(err, services.ErrDuplicateCarPark):
		apierrors.Conflict(c, "A car park with similar details already exists")
	case errors.As(err, &validationErrors):
		apierrors.ValidationError(c, validationErrors)
	case errors.Is(err, services.ErrInvalidCarPark),
		errors.Is(err, services.ErrInvalidHeightRange),
		errors.Is(err, services.ErrMissingParameter):
		apierrors.BadRequest(c, err.Error(), nil)
	default:
		apierrors.InternalServerError(c, message, err)
	}
}

// parseID reads the :id path parameter, writing a 400 if it is not an integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.BadRequest(c, "Invalid car park id", map[string]interface{}{
			"id": c.Param("id"),
		})
		return 0, false
	}
	return id, true
}

// mapCarParkToDTO converts a CarPark model to a CarParkData DTO.
func mapCarParkToDTO(park *models.CarPark) CarParkData {
	return CarParkData{
		ID:                  park.ID,
		CarParkNo:           park.CarParkNo,
		Address:             park.Address,
		XCoord:              park.XCoord,
		YCoord:              park.YCoord,
		CarParkType:         park.CarParkType,
		TypeOfParkingSystem: park.TypeOfParkingSystem,
		ShortTermParking:    park.ShortTermParking,
		FreeParking:         park.FreeParking,
		NightParking:        park.NightParking,
		CarParkDecks:        park.CarParkDecks,
		GantryHeight:        park.GantryHeight,
		CarParkBasement:     park.CarParkBasement,
		HasFreeParking:      park.HasFreeParking(),
		CreatedAt:           park.CreatedAt.UTC().Format(timestampLayout),
		UpdatedAt:           park.UpdatedAt.UTC().Format(timestampLayout),
	}
}

func mapCarParksToDTO(parks []models.CarPark) []CarParkData {
	dtos := make([]CarParkData, 0, len(parks))
	for i := range parks {
		dtos = append(dtos, mapCarParkToDTO(&parks[i]))
	}
	return dtos
}
