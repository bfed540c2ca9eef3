package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/carparks/internal/database"
	apierrors "github.com/stwalsh4118/carparks/internal/errors"
	"github.com/stwalsh4118/carparks/internal/logger"
	"github.com/stwalsh4118/carparks/internal/middleware"
	"github.com/stwalsh4118/carparks/internal/models"
	"github.com/stwalsh4118/carparks/internal/repository"
	"github.com/stwalsh4118/carparks/internal/services"
)

// setupCarParkTestRouter creates a router backed by a fresh SQLite store.
func setupCarParkTestRouter(t *testing.T) (*gin.Engine, repository.CarParkRepository) {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "carparks.db"))
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureIdentityIndex(context.Background()))

	repo := repository.NewSQLiteCarParkRepository(db)
	log := logger.Nop()
	handler := NewCarParkHandler(services.NewCarParkService(repo, log))

	return newTestRouter(handler, log), repo
}

func newTestRouter(handler *CarParkHandler, log *logger.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))

	handler.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func seedCarPark(t *testing.T, repo repository.CarParkRepository, park models.CarPark) *models.CarPark {
	t.Helper()
	created, err := repo.Create(context.Background(), &park)
	require.NoError(t, err)
	return created
}

func testCarPark(no, address, carParkType string, gantry float64) models.CarPark {
	return models.CarPark{
		CarParkNo:           no,
		Address:             address,
		XCoord:              30314.7936,
		YCoord:              31490.4942,
		CarParkType:         carParkType,
		TypeOfParkingSystem: "ELECTRONIC PARKING",
		ShortTermParking:    "WHOLE DAY",
		FreeParking:         "NO",
		NightParking:        true,
		CarParkDecks:        1,
		GantryHeight:        gantry,
	}
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeCarParks(t *testing.T, w *httptest.ResponseRecorder) []CarParkData {
	t.Helper()
	var parks []CarParkData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parks))
	return parks
}

func decodeCarPark(t *testing.T, w *httptest.ResponseRecorder) CarParkData {
	t.Helper()
	var park CarParkData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &park))
	return park
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var resp apierrors.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCarParkHandler_List(t *testing.T) {
	router, repo := setupCarParkTestRouter(t)

	t.Run("empty store returns an empty array", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("records are listed in id order", func(t *testing.T) {
		first := seedCarPark(t, repo, testCarPark("ACB", "BLK 270/271 ALBERT CENTRE BASEMENT CAR PARK", "BASEMENT CAR PARK", 1.8))
		second := seedCarPark(t, repo, testCarPark("ACM", "BLK 98A ALJUNIED CRESCENT", "MULTI-STOREY CAR PARK", 2.1))

		w := doRequest(router, http.MethodGet, "/api/v1/carparks", "")

		assert.Equal(t, http.StatusOK, w.Code)
		parks := decodeCarParks(t, w)
		require.Len(t, parks, 2)
		assert.Equal(t, first.ID, parks[0].ID)
		assert.Equal(t, second.ID, parks[1].ID)
		assert.Equal(t, "ACB", parks[0].CarParkNo)
		assert.False(t, parks[0].HasFreeParking)
		assert.NotEmpty(t, parks[0].CreatedAt)
	})
}

func TestCarParkHandler_Create(t *testing.T) {
	t.Run("minimal payload gets defaults", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks",
			`{"address": "BLK 1 TEST ROAD", "car_park_type": "SURFACE CAR PARK"}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		park := decodeCarPark(t, w)
		assert.NotZero(t, park.ID)
		assert.True(t, strings.HasPrefix(park.CarParkNo, services.ManualCarParkPrefix))
		assert.Len(t, park.CarParkNo, len(services.ManualCarParkPrefix)+8)
		assert.Equal(t, "ELECTRONIC PARKING", park.TypeOfParkingSystem)
		assert.Equal(t, "NO", park.ShortTermParking)
		assert.Equal(t, "NO", park.FreeParking)
		assert.False(t, park.HasFreeParking)
		assert.Zero(t, park.CarParkDecks)
		assert.Zero(t, park.GantryHeight)
		assert.False(t, park.NightParking)
	})

	t.Run("create alias route", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks/create",
			`{"car_park_no": "T1", "address": "BLK 1 TEST ROAD", "car_park_type": "SURFACE CAR PARK", "gantry_height": 2.5}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		park := decodeCarPark(t, w)
		assert.Equal(t, "T1", park.CarParkNo)
		assert.Equal(t, 2.5, park.GantryHeight)
	})

	t.Run("text fields accept booleans and numbers", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks",
			`{"address": "BLK 1 TEST ROAD", "car_park_type": "SURFACE CAR PARK", "free_parking": true, "short_term_parking": 7}`)

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		park := decodeCarPark(t, w)
		assert.Equal(t, "true", park.FreeParking)
		assert.Equal(t, "7", park.ShortTermParking)
		assert.True(t, park.HasFreeParking)
	})

	t.Run("missing address is a validation error", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks", `{"car_park_type": "SURFACE CAR PARK"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
		assert.Equal(t, "This field is required", resp.Error.Details["address"])
	})

	t.Run("decks out of range is a validation error", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks",
			`{"address": "A", "car_park_type": "B", "car_park_decks": 51}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
		assert.Equal(t, "Must be less than or equal to 50", resp.Error.Details["car_park_decks"])
	})

	t.Run("gantry height out of range is a validation error", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks",
			`{"address": "A", "car_park_type": "B", "gantry_height": -0.5}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "Must be greater than or equal to 0", resp.Error.Details["gantry_height"])
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPost, "/api/v1/carparks", `{"address": {"nested": 1}, "car_park_type": "B"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Error.Code)
	})

	t.Run("duplicate identity is a conflict", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		seedCarPark(t, repo, testCarPark("T1", "BLK 1 TEST ROAD", "SURFACE CAR PARK", 2.5))

		w := doRequest(router, http.MethodPost, "/api/v1/carparks",
			`{"car_park_no": "T1", "address": "BLK 1 TEST ROAD", "car_park_type": "SURFACE CAR PARK", "gantry_height": 2.5}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apierrors.ErrConflict, decodeError(t, w).Error.Code)
	})
}

func TestCarParkHandler_Get(t *testing.T) {
	router, repo := setupCarParkTestRouter(t)
	park := seedCarPark(t, repo, testCarPark("ACB", "BLK 270/271 ALBERT CENTRE", "BASEMENT CAR PARK", 1.8))

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "existing record",
			path:           "/api/v1/carparks/" + itoa(park.ID),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown id",
			path:           "/api/v1/carparks/9999",
			expectedStatus: http.StatusNotFound,
			expectedCode:   apierrors.ErrNotFound,
		},
		{
			name:           "non-numeric id",
			path:           "/api/v1/carparks/abc",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				assert.Equal(t, tt.expectedCode, decodeError(t, w).Error.Code)
				return
			}
			got := decodeCarPark(t, w)
			assert.Equal(t, park.ID, got.ID)
			assert.Equal(t, "ACB", got.CarParkNo)
		})
	}
}

func TestCarParkHandler_Queries(t *testing.T) {
	router, repo := setupCarParkTestRouter(t)

	multi := testCarPark("C001", "BLK 101 JALAN DUSUN", "MULTI-STOREY CAR PARK", 2.1)
	surface := testCarPark("C002", "BLK 2 JALAN BUKIT MERAH", "SURFACE CAR PARK", 1.8)
	surface.FreeParking = "SUN & PH FR 7AM-10.30PM"
	surface.TypeOfParkingSystem = "COUPON PARKING"
	basement := testCarPark("C003", "BLK 3 DUSUN ROAD", "BASEMENT CAR PARK", 4.5)
	basement.FreeParking = "false"

	seedCarPark(t, repo, multi)
	seedCarPark(t, repo, surface)
	seedCarPark(t, repo, basement)

	t.Run("types are distinct and sorted", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/types", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `["BASEMENT CAR PARK","MULTI-STOREY CAR PARK","SURFACE CAR PARK"]`, w.Body.String())
	})

	t.Run("filter by type ignores case", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/filter?type=surface%20car%20park", "")

		assert.Equal(t, http.StatusOK, w.Code)
		parks := decodeCarParks(t, w)
		require.Len(t, parks, 1)
		assert.Equal(t, "C002", parks[0].CarParkNo)
	})

	t.Run("filter without type is a bad request", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/filter", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Car park type not specified", decodeError(t, w).Error.Message)
	})

	for _, path := range []string{"/api/v1/carparks/free", "/api/v1/carparks/free-parking"} {
		t.Run("free parking via "+path, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			parks := decodeCarParks(t, w)
			require.Len(t, parks, 1)
			assert.Equal(t, "C002", parks[0].CarParkNo)
			assert.True(t, parks[0].HasFreeParking)
		})
	}

	t.Run("search matches address substrings", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/search?address=dusun", "")

		assert.Equal(t, http.StatusOK, w.Code)
		parks := decodeCarParks(t, w)
		require.Len(t, parks, 2)
		assert.Equal(t, "C001", parks[0].CarParkNo)
		assert.Equal(t, "C003", parks[1].CarParkNo)
	})

	t.Run("search without address is a bad request", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/search?address=", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Address query not specified", decodeError(t, w).Error.Message)
	})

	for _, path := range []string{"/api/v1/carparks/group", "/api/v1/carparks/group-by-system"} {
		t.Run("group via "+path, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `[
				{"type_of_parking_system": "COUPON PARKING", "total": 1},
				{"type_of_parking_system": "ELECTRONIC PARKING", "total": 2}
			]`, w.Body.String())
		})
	}

	for _, path := range []string{"/api/v1/carparks/average", "/api/v1/carparks/average-gantry-height"} {
		t.Run("average via "+path, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, path, "")

			assert.Equal(t, http.StatusOK, w.Code)
			var resp AverageHeightResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.NotNil(t, resp.AverageHeight)
			assert.InDelta(t, 2.8, *resp.AverageHeight, 1e-9)
		})
	}

	t.Run("height range with both bounds", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/height-range?min_height=1.8&max_height=2.1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		parks := decodeCarParks(t, w)
		require.Len(t, parks, 2)
		assert.Equal(t, "C001", parks[0].CarParkNo)
		assert.Equal(t, "C002", parks[1].CarParkNo)
	})

	t.Run("height range with only a lower bound", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/height-range?min_height=3", "")

		assert.Equal(t, http.StatusOK, w.Code)
		parks := decodeCarParks(t, w)
		require.Len(t, parks, 1)
		assert.Equal(t, "C003", parks[0].CarParkNo)
	})

	t.Run("height range with min above max", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/height-range?min_height=5&max_height=2", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apierrors.ErrBadRequest, decodeError(t, w).Error.Code)
	})

	t.Run("height range with a non-numeric bound", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/v1/carparks/height-range?min_height=low", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCarParkHandler_AverageEmptyStore(t *testing.T) {
	router, _ := setupCarParkTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/carparks/average", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"average_height": null}`, w.Body.String())
}

func TestCarParkHandler_Replace(t *testing.T) {
	full := `{
		"car_park_no": "ACB",
		"address": "BLK 270 ALBERT CENTRE",
		"x_coord": 1,
		"y_coord": 2,
		"car_park_type": "BASEMENT CAR PARK",
		"type_of_parking_system": "ELECTRONIC PARKING",
		"short_term_parking": "WHOLE DAY",
		"free_parking": "NO",
		"night_parking": false,
		"car_park_decks": 0,
		"gantry_height": 0,
		"car_park_basement": true
	}`

	t.Run("full body replaces every field", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		park := seedCarPark(t, repo, testCarPark("ACB", "OLD ADDRESS", "BASEMENT CAR PARK", 1.8))

		w := doRequest(router, http.MethodPut, "/api/v1/carparks/"+itoa(park.ID), full)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeCarPark(t, w)
		assert.Equal(t, "BLK 270 ALBERT CENTRE", got.Address)
		assert.Equal(t, 1.0, got.XCoord)
		assert.Zero(t, got.GantryHeight)
		assert.Zero(t, got.CarParkDecks)
		assert.False(t, got.NightParking)
		assert.True(t, got.CarParkBasement)
	})

	t.Run("partial body is a validation error", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		park := seedCarPark(t, repo, testCarPark("ACB", "OLD ADDRESS", "BASEMENT CAR PARK", 1.8))

		w := doRequest(router, http.MethodPut, "/api/v1/carparks/"+itoa(park.ID), `{"address": "NEW"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, apierrors.ErrValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "car_park_no")
		assert.Contains(t, resp.Error.Details, "gantry_height")
	})

	t.Run("unknown id", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPut, "/api/v1/carparks/42", full)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCarParkHandler_Update(t *testing.T) {
	t.Run("patches only the sent fields", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		park := seedCarPark(t, repo, testCarPark("ACB", "OLD ADDRESS", "BASEMENT CAR PARK", 1.8))

		w := doRequest(router, http.MethodPatch, "/api/v1/carparks/"+itoa(park.ID), `{"address": "NEW ADDRESS"}`)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeCarPark(t, w)
		assert.Equal(t, "NEW ADDRESS", got.Address)
		assert.Equal(t, "ACB", got.CarParkNo)
		assert.Equal(t, 1.8, got.GantryHeight)
	})

	t.Run("out of range value is rejected", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		park := seedCarPark(t, repo, testCarPark("ACB", "OLD ADDRESS", "BASEMENT CAR PARK", 1.8))

		w := doRequest(router, http.MethodPatch, "/api/v1/carparks/"+itoa(park.ID), `{"gantry_height": 12}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Must be less than or equal to 10", decodeError(t, w).Error.Details["gantry_height"])

		stored, err := repo.FindByID(context.Background(), park.ID)
		require.NoError(t, err)
		assert.Equal(t, 1.8, stored.GantryHeight)
	})

	t.Run("identity collision is a conflict", func(t *testing.T) {
		router, repo := setupCarParkTestRouter(t)
		seedCarPark(t, repo, testCarPark("ACB", "ADDRESS A", "BASEMENT CAR PARK", 1.8))
		other := seedCarPark(t, repo, testCarPark("ACB", "ADDRESS B", "BASEMENT CAR PARK", 1.8))

		w := doRequest(router, http.MethodPatch, "/api/v1/carparks/"+itoa(other.ID), `{"address": "ADDRESS A"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown id", func(t *testing.T) {
		router, _ := setupCarParkTestRouter(t)

		w := doRequest(router, http.MethodPatch, "/api/v1/carparks/42", `{"address": "X"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCarParkHandler_Delete(t *testing.T) {
	router, repo := setupCarParkTestRouter(t)
	park := seedCarPark(t, repo, testCarPark("ACB", "BLK 270 ALBERT CENTRE", "BASEMENT CAR PARK", 1.8))
	path := "/api/v1/carparks/" + itoa(park.ID)

	w := doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// MockCarParkService is a mock implementation of services.CarParkService.
type MockCarParkService struct {
	services.CarParkService
	mock.Mock
}

func (m *MockCarParkService) List(ctx context.Context) ([]models.CarPark, error) {
	args := m.Called(ctx)
	parks, _ := args.Get(0).([]models.CarPark)
	return parks, args.Error(1)
}

func TestCarParkHandler_InternalError(t *testing.T) {
	svc := new(MockCarParkService)
	svc.On("List", mock.Anything).Return(nil, errors.New("connection reset"))

	router := newTestRouter(NewCarParkHandler(svc), logger.Nop())

	w := doRequest(router, http.MethodGet, "/api/v1/carparks", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, apierrors.ErrInternalServer, resp.Error.Code)
	assert.Equal(t, "Failed to list car parks", resp.Error.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
	svc.AssertExpectations(t)
}

func TestFlexibleText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "string", input: `"WHOLE DAY"`, expected: "WHOLE DAY"},
		{name: "true", input: `true`, expected: "true"},
		{name: "false", input: `false`, expected: "false"},
		{name: "integer", input: `7`, expected: "7"},
		{name: "decimal", input: `10.5`, expected: "10.5"},
		{name: "object", input: `{"a": 1}`, wantErr: true},
		{name: "array", input: `[1]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexibleText
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}

	t.Run("null leaves a pointer field unset", func(t *testing.T) {
		var req UpdateCarParkRequest
		require.NoError(t, json.Unmarshal([]byte(`{"free_parking": null, "address": "X"}`), &req))
		assert.Nil(t, req.FreeParking)
		require.NotNil(t, req.Address)
		assert.Equal(t, "X", req.Address.String())
	})
}

func TestCreateCarParkRequest_CarPark(t *testing.T) {
	decks := 3
	free := FlexibleText("YES")
	req := CreateCarParkRequest{
		Address:      "BLK 1",
		CarParkType:  "SURFACE CAR PARK",
		FreeParking:  &free,
		CarParkDecks: &decks,
	}

	park := req.CarPark()

	assert.Equal(t, "BLK 1", park.Address)
	assert.Equal(t, "SURFACE CAR PARK", park.CarParkType)
	assert.Equal(t, "YES", park.FreeParking)
	assert.Equal(t, 3, park.CarParkDecks)
	assert.Empty(t, park.CarParkNo)
	assert.Empty(t, park.TypeOfParkingSystem)
}
