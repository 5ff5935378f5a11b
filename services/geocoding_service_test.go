package services

import (
	"context"
	"floodguard/utils"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocoder_Forward(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Islamabad", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"display_name": "Islamabad, Pakistan", "lat": "33.6844", "lon": "73.0479"}]`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	result, err := geocoder.Forward(context.Background(), "Islamabad")
	require.NoError(t, err)

	assert.Equal(t, "Islamabad, Pakistan", result.DisplayName)
	assert.InDelta(t, 33.6844, result.Latitude, 0.0001)
	assert.InDelta(t, 73.0479, result.Longitude, 0.0001)
}

func TestNominatimGeocoder_ForwardNoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	_, err := geocoder.Forward(context.Background(), "xyzzyx nowhere")
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, serviceErr.StatusCode)
}

func TestNominatimGeocoder_ForwardServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	_, err := geocoder.Forward(context.Background(), "Islamabad")
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusServiceUnavailable, serviceErr.StatusCode)
}

func TestNominatimGeocoder_Reverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": "Blue Area, Islamabad, Pakistan"}`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	name, err := geocoder.Reverse(context.Background(), 33.6844, 73.0479)
	require.NoError(t, err)
	assert.Equal(t, "Blue Area, Islamabad, Pakistan", name)
}

func TestNominatimGeocoder_ReverseFallsBackToCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	name, err := geocoder.Reverse(context.Background(), 33.6844, 73.0479)
	require.NoError(t, err)
	assert.Equal(t, "33.68440, 73.04790", name)
}

func TestNominatimGeocoder_ReverseEmptyDisplayName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": ""}`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(server.URL)

	name, err := geocoder.Reverse(context.Background(), 1.5, 2.5)
	require.NoError(t, err)
	assert.Equal(t, "1.50000, 2.50000", name)
}
