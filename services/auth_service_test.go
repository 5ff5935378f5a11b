package services

import (
	"context"
	"floodguard/utils"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RequestOTPWithoutSMSSender(t *testing.T) {
	// Twilio credentials absent: main wires a nil sender and phone sign-in
	// must degrade to a clean error, not a panic
	service := NewAuthService(nil, nil, nil, nil)

	err := service.RequestOTP(context.Background(), "+923001234567")
	require.Error(t, err)

	serviceErr, ok := utils.GetServiceError(err)
	require.True(t, ok)
	assert.Equal(t, "OTP_UNAVAILABLE", serviceErr.Code)
	assert.Equal(t, http.StatusServiceUnavailable, serviceErr.StatusCode)
}
