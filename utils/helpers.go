package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GetUserID extracts the authenticated user ID from the gin context
func GetUserID(c *gin.Context) string {
	if userID, exists := c.Get("userID"); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateOTP returns a numeric one-time code of the given length
func GenerateOTP(length int) string {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			// crypto/rand failing means something is deeply wrong; fall back
			// to a time-derived digit rather than returning a short code
			sb.WriteByte(byte('0' + time.Now().UnixNano()%10))
			continue
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String()
}

var locationKeyRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// NormalizeLocationKey maps a free-text location to the cache document key:
// non-alphanumeric runs become a single dash, everything lowercased.
func NormalizeLocationKey(location string) string {
	key := locationKeyRegex.ReplaceAllString(location, "-")
	key = strings.Trim(key, "-")
	return strings.ToLower(key)
}

func TruncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength] + "..."
}

// FormatCoordinates renders a lat/lon pair as the display fallback used
// when reverse geocoding is unavailable.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.5f, %.5f", lat, lon)
}

func CalculateOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func CalculateTotalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}
