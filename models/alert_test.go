package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"active to accepted", AlertStatusActive, AlertStatusAccepted, true},
		{"accepted to resolved", AlertStatusAccepted, AlertStatusResolved, true},
		{"active to resolved skips accepted", AlertStatusActive, AlertStatusResolved, false},
		{"resolved cannot reopen", AlertStatusResolved, AlertStatusActive, false},
		{"resolved cannot go back to accepted", AlertStatusResolved, AlertStatusAccepted, false},
		{"accepted cannot go back to active", AlertStatusAccepted, AlertStatusActive, false},
		{"no self transition", AlertStatusActive, AlertStatusActive, false},
		{"unknown status", "cancelled", AlertStatusResolved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsValidVolunteerStatus(t *testing.T) {
	assert.True(t, IsValidVolunteerStatus(StatusAvailable))
	assert.True(t, IsValidVolunteerStatus(StatusOffline))
	assert.True(t, IsValidVolunteerStatus(StatusResponding))
	assert.False(t, IsValidVolunteerStatus("busy"))
	assert.False(t, IsValidVolunteerStatus(""))
}
