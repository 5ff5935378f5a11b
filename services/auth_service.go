package services

import (
	"context"
	"crypto/subtle"
	"floodguard/models"
	"floodguard/repositories"
	"floodguard/utils"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const (
	otpLength      = 6
	otpTTL         = 5 * time.Minute
	otpMaxAttempts = 5
	otpResendGap   = 60 * time.Second
)

// AuthService handles every way into the app: email/password accounts,
// phone sign-in with a one-time code, and throwaway anonymous sessions.
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *utils.JWTService
	redis      *redis.Client
	notifier   *utils.NotificationSender
}

func NewAuthService(userRepo *repositories.UserRepository, jwtService *utils.JWTService, redisClient *redis.Client, notifier *utils.NotificationSender) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		redis:      redisClient,
		notifier:   notifier,
	}
}

// Register creates an email/password account with the registered role.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	if existing, _ := s.userRepo.GetByEmail(ctx, req.Email); existing != nil {
		return nil, utils.NewConflictError("An account with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Errorf("Failed to hash password: %v", err)
		return nil, utils.NewServiceError("REGISTRATION_FAILED", "Failed to create account")
	}

	user := &models.User{
		Email:      req.Email,
		Phone:      req.Phone,
		Password:   string(hashedPassword),
		Name:       req.Name,
		Role:       models.RoleRegistered,
		Status:     models.StatusOffline,
		IsActive:   true,
		IsVerified: false,
		LastSeen:   time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if err.Error() == "user already exists" {
			return nil, utils.NewConflictError("An account with this email already exists")
		}
		return nil, utils.NewServiceError("REGISTRATION_FAILED", "Failed to create account")
	}

	return s.issueTokens(user)
}

// Login authenticates an email/password account.
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, utils.NewServiceErrorWithStatus("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	}

	if !user.IsActive {
		return nil, utils.NewServiceErrorWithStatus("ACCOUNT_DISABLED", "This account has been disabled", http.StatusForbidden)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, utils.NewServiceErrorWithStatus("INVALID_CREDENTIALS", "Invalid email or password", http.StatusUnauthorized)
	}

	if err := s.userRepo.UpdateLastSeen(ctx, user.ID.Hex()); err != nil {
		logrus.Warnf("Failed to update last seen for %s: %v", user.ID.Hex(), err)
	}

	return s.issueTokens(user)
}

// AnonymousSession creates a throwaway guest account so residents can see
// the dashboard and report incidents without signing up.
func (s *AuthService) AnonymousSession(ctx context.Context) (*models.AuthResponse, error) {
	user := &models.User{
		Name:     "Guest",
		Role:     models.RoleAnonymous,
		Status:   models.StatusOffline,
		IsActive: true,
		LastSeen: time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, utils.NewServiceError("SESSION_FAILED", "Failed to create guest session")
	}

	return s.issueTokens(user)
}

// RefreshTokens exchanges a valid refresh token for a new pair.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	tokens, err := s.jwtService.RefreshToken(refreshToken)
	if err != nil {
		return nil, utils.NewServiceErrorWithStatus("INVALID_TOKEN", "Invalid or expired refresh token", http.StatusUnauthorized)
	}
	return tokens, nil
}

// RequestOTP sends a one-time sign-in code over SMS. Codes live five
// minutes; a resend within sixty seconds is rejected.
func (s *AuthService) RequestOTP(ctx context.Context, phone string) error {
	// The SMS sender is nil when Twilio credentials are not configured
	if s.notifier == nil {
		return utils.NewServiceErrorWithStatus("OTP_UNAVAILABLE", "Phone sign-in is not available right now", http.StatusServiceUnavailable)
	}

	resendKey := otpResendKey(phone)
	if s.redis.Exists(ctx, resendKey).Val() > 0 {
		return utils.NewServiceErrorWithStatus("OTP_TOO_SOON", "Please wait before requesting another code", http.StatusTooManyRequests)
	}

	code := utils.GenerateOTP(otpLength)

	if err := s.redis.Set(ctx, otpKey(phone), code, otpTTL).Err(); err != nil {
		logrus.Errorf("Failed to store OTP for %s: %v", phone, err)
		return utils.NewServiceError("OTP_FAILED", "Failed to send verification code")
	}
	s.redis.Del(ctx, otpAttemptsKey(phone))
	s.redis.Set(ctx, resendKey, "1", otpResendGap)

	_, err := s.notifier.SendSMS(ctx, utils.SMSMessage{
		To:      phone,
		Message: fmt.Sprintf("Your FloodGuard verification code is %s. It expires in 5 minutes.", code),
	})
	if err != nil {
		logrus.Errorf("Failed to send OTP SMS to %s: %v", phone, err)
		return utils.NewServiceErrorWithStatus("OTP_FAILED", "Failed to send verification code", http.StatusBadGateway)
	}

	return nil
}

// VerifyOTP checks the code and signs the caller in, creating the account
// on first use of a phone number.
func (s *AuthService) VerifyOTP(ctx context.Context, phone, code string) (*models.AuthResponse, error) {
	attempts, _ := s.redis.Incr(ctx, otpAttemptsKey(phone)).Result()
	if attempts == 1 {
		s.redis.Expire(ctx, otpAttemptsKey(phone), otpTTL)
	}
	if attempts > otpMaxAttempts {
		s.redis.Del(ctx, otpKey(phone))
		return nil, utils.NewServiceErrorWithStatus("OTP_LOCKED", "Too many attempts, request a new code", http.StatusTooManyRequests)
	}

	stored, err := s.redis.Get(ctx, otpKey(phone)).Result()
	if err != nil {
		return nil, utils.NewServiceErrorWithStatus("OTP_INVALID", "Invalid or expired code", http.StatusUnauthorized)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return nil, utils.NewServiceErrorWithStatus("OTP_INVALID", "Invalid or expired code", http.StatusUnauthorized)
	}

	s.redis.Del(ctx, otpKey(phone), otpAttemptsKey(phone))

	user, err := s.userRepo.GetByPhone(ctx, phone)
	if err != nil || user == nil {
		user = &models.User{
			Phone:      phone,
			Name:       "Resident",
			Role:       models.RoleRegistered,
			Status:     models.StatusOffline,
			IsActive:   true,
			IsVerified: true,
			LastSeen:   time.Now(),
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, utils.NewServiceError("SIGNIN_FAILED", "Failed to sign in")
		}
	} else if !user.IsVerified {
		if err := s.userRepo.Update(ctx, user.ID.Hex(), bson.M{"isVerified": true}); err != nil {
			logrus.Warnf("Failed to mark user %s verified: %v", user.ID.Hex(), err)
		}
		user.IsVerified = true
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *models.User) (*models.AuthResponse, error) {
	tokens, err := s.jwtService.GenerateTokenPair(user.ID.Hex(), user.Role)
	if err != nil {
		logrus.Errorf("Failed to generate tokens for %s: %v", user.ID.Hex(), err)
		return nil, utils.NewServiceError("TOKEN_FAILED", "Failed to issue session tokens")
	}

	return &models.AuthResponse{
		User:   user,
		Tokens: tokens,
	}, nil
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func otpAttemptsKey(phone string) string {
	return "otp:attempts:" + phone
}

func otpResendKey(phone string) string {
	return "otp:resend:" + phone
}
