package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/masir/internal/app/models"
)

func validRoad() models.CreateRoadRequest {
	return models.CreateRoadRequest{
		RoadName:    "ولیعصر",
		RoadType:    models.RoadTypeMainStreet,
		Coordinates: [][]float64{{35.7, 51.4}, {35.8, 51.5}},
	}
}

func TestRoadCoordinates(t *testing.T) {
	tooMany := make([][]float64, 1001)
	for i := range tooMany {
		tooMany[i] = []float64{35, 51}
	}
	maxAllowed := tooMany[:1000]

	tests := []struct {
		name    string
		coords  [][]float64
		wantErr string
	}{
		{"exactly two points", [][]float64{{35.7, 51.4}, {35.8, 51.5}}, ""},
		{"one point", [][]float64{{35.7, 51.4}}, "حداقل 2 نقطه"},
		{"empty", [][]float64{}, "حداقل 2 نقطه"},
		{"thousand points", maxAllowed, ""},
		{"over thousand points", tooMany, "بیشتر از 1000"},
		{"latitude 90", [][]float64{{90, 0}, {-90, 0}}, ""},
		{"latitude 91", [][]float64{{91, 0}, {35, 51}}, "عرض جغرافیایی"},
		{"latitude -91", [][]float64{{35, 51}, {-91, 0}}, "عرض جغرافیایی"},
		{"longitude 181", [][]float64{{35, 181}, {35, 51}}, "طول جغرافیایی"},
		{"longitude -180", [][]float64{{35, -180}, {35, 180}}, ""},
		{"three values", [][]float64{{35, 51, 1}, {35, 51}}, "هر نقطه"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRoad()
			req.Coordinates = tt.coords
			err := Struct(&req)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrValidation)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRoadFields(t *testing.T) {
	req := validRoad()
	req.RoadType = "جاده خاکی"
	err := Struct(&req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "نوع جاده")

	req = validRoad()
	req.RoadName = "ا"
	err = Struct(&req)
	require.Error(t, err)
	assert.Equal(t, "نام جاده باید حداقل 2 کاراکتر باشد", err.Error())

	req = validRoad()
	req.RoadName = strings.Repeat("ب", 200)
	assert.NoError(t, Struct(&req), "length is counted in runes, not bytes")

	req.RoadName = strings.Repeat("ب", 201)
	assert.Error(t, Struct(&req))
}

func TestPOIRequest(t *testing.T) {
	req := models.CreatePOIRequest{
		Name:     "پارک ملت",
		Category: models.CategoryPublic,
		POIType:  "park",
		Location: []float64{35.77, 51.42},
	}
	assert.NoError(t, Struct(&req))

	req.Category = "other"
	assert.ErrorIs(t, Struct(&req), models.ErrValidation)

	req.Category = models.CategoryPrivate
	req.Location = []float64{35.77}
	err := Struct(&req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "موقعیت")

	req.Location = []float64{-91, 0}
	assert.Error(t, Struct(&req))
}

func TestRegisterRequest(t *testing.T) {
	req := models.RegisterRequest{Email: "a@example.com", Password: "secret1", FullName: "Ali"}
	assert.NoError(t, Struct(&req))

	bad := req
	bad.Email = "not-an-email"
	err := Struct(&bad)
	require.Error(t, err)
	msg, ok := Message(err)
	assert.True(t, ok)
	assert.NotEmpty(t, msg)

	bad = req
	bad.Password = "12345"
	err = Struct(&bad)
	require.Error(t, err)
	assert.Equal(t, "رمز عبور باید حداقل 6 کاراکتر باشد", err.Error())

	bad = req
	bad.FullName = "A"
	var ve *Error
	require.ErrorAs(t, Struct(&bad), &ve)
	assert.Equal(t, "full_name", ve.Field)
	assert.Equal(t, "min", ve.Tag)
}

func TestBroadcastRequest(t *testing.T) {
	req := models.BroadcastRequest{UserID: models.BroadcastAll, Title: "t", Message: "m"}
	assert.NoError(t, Struct(&req))

	req.Title = ""
	assert.Error(t, Struct(&req))

	req.Title = "t"
	req.Message = strings.Repeat("x", 1001)
	assert.Error(t, Struct(&req))
}

func TestPageParams(t *testing.T) {
	assert.NoError(t, Struct(&models.PageParams{Page: 1, PageSize: 100}))
	assert.Error(t, Struct(&models.PageParams{Page: 0, PageSize: 20}))
	assert.Error(t, Struct(&models.PageParams{Page: 1, PageSize: 101}))
	assert.Error(t, Struct(&models.PageParams{Page: 1, PageSize: 0}))
}
