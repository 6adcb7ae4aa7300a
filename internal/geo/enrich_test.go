package geo

import (
	"testing"

	"github.com/On-Jun9/MetaSpy/internal/config"
	"github.com/On-Jun9/MetaSpy/pkg/types"
	"github.com/stretchr/testify/assert"
)

func gps(lat, lon any) *types.Fields {
	f := types.NewFields()
	f.Set("File Type", "JPEG")
	f.Set(LatitudeKey, lat)
	f.Set(LongitudeKey, lon)
	return f
}

func TestEnrich_DecimalDegrees(t *testing.T) {
	link, ok := New(config.DefaultMapsURL).Enrich(gps(37.7749, -122.4194))

	assert.True(t, ok)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=37.7749,-122.4194", link)
}

func TestEnrich_ValuesAreVerbatim(t *testing.T) {
	link, ok := New(config.DefaultMapsURL).Enrich(gps("37 deg 46' 29.64\" N", 200))

	assert.True(t, ok)
	assert.Equal(t, "https://www.google.com/maps/search/?api=1&query=37 deg 46' 29.64\" N,200", link)
}

func TestEnrich_RequiresBothKeys(t *testing.T) {
	e := New(config.DefaultMapsURL)

	onlyLat := types.NewFields()
	onlyLat.Set(LatitudeKey, 1.5)
	_, ok := e.Enrich(onlyLat)
	assert.False(t, ok)

	lowercase := types.NewFields()
	lowercase.Set("gpslatitude", 1.5)
	lowercase.Set("gpslongitude", 2.5)
	_, ok = e.Enrich(lowercase)
	assert.False(t, ok)

	_, ok = e.Enrich(nil)
	assert.False(t, ok)
}

func TestEnrich_UnusableValues(t *testing.T) {
	e := New(config.DefaultMapsURL)

	_, ok := e.Enrich(gps(nil, 2.5))
	assert.False(t, ok)

	_, ok = e.Enrich(gps(1.5, []float64{2, 3}))
	assert.False(t, ok)
}

func TestEnrich_FailureRecordHasNoLink(t *testing.T) {
	_, ok := New(config.DefaultMapsURL).Enrich(types.ErrorFields("Could not process image: EOF"))
	assert.False(t, ok)
}

func TestEnrich_CustomBaseURL(t *testing.T) {
	link, ok := New("https://maps.example.org/search").Enrich(gps(1.5, 2))
	assert.True(t, ok)
	assert.Equal(t, "https://maps.example.org/search?query=1.5,2", link)

	_, ok = New("http://[::1").Enrich(gps(1.5, 2))
	assert.False(t, ok)
}
