package services

import (
	"context"
	"encoding/json"
	"floodguard/models"
	"floodguard/utils"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const geocoderUserAgent = "floodguard/1.0"

// NominatimGeocoder talks to a Nominatim instance over plain HTTP. Forward
// lookups resolve a free-text address to its best match; reverse lookups
// resolve coordinates to a display name, falling back to the raw coordinate
// string when the service is down.
type NominatimGeocoder struct {
	baseURL    string
	httpClient *http.Client
}

func NewNominatimGeocoder(baseURL string) *NominatimGeocoder {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &NominatimGeocoder{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type nominatimPlace struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Forward resolves a free-text address to coordinates. No match is an
// error the caller surfaces as a user-facing message.
func (g *NominatimGeocoder) Forward(ctx context.Context, address string) (*models.GeocodeResult, error) {
	query := url.Values{}
	query.Set("q", address)
	query.Set("format", "json")
	query.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/search?%s", g.baseURL, query.Encode())

	var places []nominatimPlace
	if err := g.get(ctx, endpoint, &places); err != nil {
		logrus.Warnf("Forward geocoding failed for %q: %v", address, err)
		return nil, utils.NewServiceErrorWithStatus("GEOCODING_UNAVAILABLE", "Location lookup is temporarily unavailable", http.StatusServiceUnavailable)
	}

	if len(places) == 0 {
		return nil, utils.NewNotFoundError("Location")
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, utils.NewServiceError("GEOCODING_BAD_RESPONSE", "Location lookup returned an invalid result")
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, utils.NewServiceError("GEOCODING_BAD_RESPONSE", "Location lookup returned an invalid result")
	}

	return &models.GeocodeResult{
		DisplayName: places[0].DisplayName,
		Latitude:    lat,
		Longitude:   lon,
	}, nil
}

// Reverse resolves coordinates to a display name. Never fails hard; if the
// service is unreachable or returns nothing the coordinate string is the
// answer.
func (g *NominatimGeocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	query := url.Values{}
	query.Set("format", "json")
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	endpoint := fmt.Sprintf("%s/reverse?%s", g.baseURL, query.Encode())

	var place nominatimPlace
	if err := g.get(ctx, endpoint, &place); err != nil {
		logrus.Warnf("Reverse geocoding failed for %.5f,%.5f: %v", lat, lon, err)
		return utils.FormatCoordinates(lat, lon), nil
	}

	if place.DisplayName == "" {
		return utils.FormatCoordinates(lat, lon), nil
	}

	return place.DisplayName, nil
}

func (g *NominatimGeocoder) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", geocoderUserAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
