package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateDistance(t *testing.T) {
	// Same point
	assert.Equal(t, 0.0, CalculateDistance(33.6844, 73.0479, 33.6844, 73.0479))

	// One degree of latitude is roughly 111.19 km
	d := CalculateDistance(0, 0, 1, 0)
	assert.InDelta(t, 111195, d, 100)

	// Distance is symmetric
	forward := CalculateDistance(33.6844, 73.0479, 31.5204, 74.3587)
	backward := CalculateDistance(31.5204, 74.3587, 33.6844, 73.0479)
	assert.InDelta(t, forward, backward, 0.001)
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(33.6844, 73.0479))
	assert.True(t, IsValidCoordinate(-90, -180))
	assert.True(t, IsValidCoordinate(90, 180))
	assert.True(t, IsValidCoordinate(0, 0))
	assert.False(t, IsValidCoordinate(90.1, 0))
	assert.False(t, IsValidCoordinate(-90.1, 0))
	assert.False(t, IsValidCoordinate(0, 180.1))
	assert.False(t, IsValidCoordinate(0, -180.1))
}
