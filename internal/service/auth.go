package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/mealplanner/backend/internal/models"
	"github.com/pageza/mealplanner/backend/internal/types"
)

const (
	DefaultTokenExpiry = 2 * time.Hour
	ResetTokenExpiry   = time.Hour
	resetTokenBytes    = 32
	defaultDietPref    = "none"
)

var errInvalidCredentials = Unauthorized("invalid email/username or password")

type AuthService struct {
	db          *gorm.DB
	jwtSecret   string
	tokenExpiry time.Duration
	mailer      IEmailService
	logger      *zap.Logger
	now         func() time.Time
}

// Ensure AuthService implements IAuthService
var _ IAuthService = (*AuthService)(nil)

func NewAuthService(db *gorm.DB, jwtSecret string, tokenExpiry time.Duration, mailer IEmailService, logger *zap.Logger) *AuthService {
	if tokenExpiry <= 0 {
		tokenExpiry = DefaultTokenExpiry
	}
	return &AuthService{
		db:          db,
		jwtSecret:   jwtSecret,
		tokenExpiry: tokenExpiry,
		mailer:      mailer,
		logger:      logger.Named("auth"),
		now:         time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" ||
		req.Password == "" || req.Goal == "" || req.Gender == "" || req.Age == nil {
		return nil, InvalidInput("missing required fields")
	}

	db := s.db.WithContext(ctx)

	var existing int64
	if err := db.Model(&models.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&existing).Error; err != nil {
		return nil, storageError(err, "check existing user")
	}
	if existing > 0 {
		return nil, newError(KindConflict, nil, "user already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	dietPref := req.DietPreference
	if dietPref == "" {
		dietPref = defaultDietPref
	}

	user := &models.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          req.Email,
		Phone:          req.PhoneNumber,
		PasswordHash:   string(hashedPassword),
		Height:         req.Height,
		Weight:         req.Weight,
		Age:            req.Age,
		Gender:         strings.ToLower(req.Gender),
		Goal:           strings.ToLower(req.Goal),
		DietPreference: dietPref,
	}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, newError(KindConflict, err, "user already exists")
		}
		return nil, storageError(err, "register user")
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login accepts either the email or the username and returns a signed token.
func (s *AuthService) Login(ctx context.Context, emailOrUsername, password string) (string, *models.User, error) {
	if emailOrUsername == "" || password == "" {
		return "", nil, InvalidInput("email/username and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("email = ? OR username = ?", emailOrUsername, emailOrUsername).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, errInvalidCredentials
		}
		return "", nil, storageError(err, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, errInvalidCredentials
	}

	token, err := s.generateToken(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	now := s.now()
	claims := types.TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
		},
		UserID:   user.ID,
		Username: user.Username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, newError(KindUnauthorized, err, "invalid token")
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, Unauthorized("invalid token claims")
	}
	return claims, nil
}

// ForgotPassword issues a reset token for the account and mails it.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return InvalidInput("email is required")
	}

	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(KindNotFound, nil, "user with this email does not exist")
		}
		return storageError(err, "load user")
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}

	reset := &models.PasswordReset{
		Email:     user.Email,
		Token:     token,
		ExpiresAt: s.now().Add(ResetTokenExpiry),
	}
	if err := db.Create(reset).Error; err != nil {
		return storageError(err, "store reset token")
	}

	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

// ResetPassword consumes a valid, unexpired token and rehashes the password.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return InvalidInput("missing token or new password")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reset models.PasswordReset
		if err := tx.Where("token = ? AND expires_at > ?", token, s.now()).First(&reset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return InvalidInput("invalid or expired token")
			}
			return storageError(err, "load reset token")
		}

		res := tx.Model(&models.User{}).Where("email = ?", reset.Email).Update("password_hash", string(hashedPassword))
		if res.Error != nil {
			return storageError(res.Error, "update password")
		}
		if res.RowsAffected == 0 {
			return newError(KindNotFound, nil, "user for reset token not found")
		}

		del := tx.Where("id = ?", reset.ID).Delete(&models.PasswordReset{})
		if del.Error != nil {
			return storageError(del.Error, "consume reset token")
		}
		if del.RowsAffected == 0 {
			return InvalidInput("invalid or expired token")
		}
		return nil
	})
}

// PurgeExpiredResets deletes reset tokens past their expiry.
func (s *AuthService) PurgeExpiredResets(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.PasswordReset{})
	if res.Error != nil {
		return 0, storageError(res.Error, "purge expired reset tokens")
	}
	return res.RowsAffected, nil
}

func newResetToken() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
