// Package account provides the application layer for account management
package account

import (
	"context"
	"time"

	"github.com/JhonatanAndres2004/TasteAI/internal/domain/nutrition"
	"github.com/JhonatanAndres2004/TasteAI/internal/ports/outbound"
	apperrors "github.com/JhonatanAndres2004/TasteAI/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Service implements account management use cases
type Service struct {
	profiles      outbound.ProfileRepository
	jwtSecret     string
	jwtExpiration time.Duration
	bcryptCost    int
	validate      *validator.Validate
	logger        *zap.Logger
}

// NewService creates a new account service
func NewService(
	profiles outbound.ProfileRepository,
	jwtSecret string,
	jwtExpiration time.Duration,
	bcryptCost int,
	logger *zap.Logger,
) *Service {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	if jwtExpiration <= 0 {
		jwtExpiration = 24 * time.Hour
	}
	return &Service{
		profiles:      profiles,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		bcryptCost:    bcryptCost,
		validate:      validator.New(),
		logger:        logger.Named("account-service"),
	}
}

// SignUpCommand contains registration data. Lifestyle arrays arrive later
// through the lifestyle update; only the basics are collected up front.
type SignUpCommand struct {
	Email     string  `json:"email" validate:"required,email"`
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Password  string  `json:"password" validate:"required,min=8"`
	Sex       string  `json:"sex" validate:"required,oneof=Male Female"`
	Age       int     `json:"age" validate:"required,min=14,max=120"`
	Weight    float64 `json:"weight" validate:"required,gt=0"`
	Height    float64 `json:"height" validate:"required,gt=0"`
	Country   string  `json:"country" validate:"required"`
	Objective string  `json:"objective" validate:"required,oneof='Weight Loss' 'Muscle Gain' 'Maintenance'"`
}

// SignInCommand contains login data
type SignInCommand struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateBasicInfoCommand carries the mutable demographic fields
type UpdateBasicInfoCommand struct {
	Name      string  `json:"name" validate:"required,min=2,max=100"`
	Sex       string  `json:"sex" validate:"required,oneof=Male Female"`
	Age       int     `json:"age" validate:"required,min=14,max=120"`
	Weight    float64 `json:"weight" validate:"required,gt=0"`
	Height    float64 `json:"height" validate:"required,gt=0"`
	Country   string  `json:"country" validate:"required"`
	Objective string  `json:"objective" validate:"required,oneof='Weight Loss' 'Muscle Gain' 'Maintenance'"`
}

// UpdateLifestyleCommand replaces the free-text lifestyle arrays
type UpdateLifestyleCommand struct {
	Allergies           []string `json:"allergies"`
	SportiveDescription []string `json:"sportive_description"`
	MedicalConditions   []string `json:"medical_conditions"`
	FoodPreferences     []string `json:"food_preferences"`
}

// ProfileDTO is the outward representation of a profile
type ProfileDTO struct {
	ID                  uuid.UUID          `json:"id"`
	Email               string             `json:"email"`
	Name                string             `json:"name"`
	Sex                 string             `json:"sex"`
	Age                 int                `json:"age"`
	Weight              float64            `json:"weight"`
	Height              float64            `json:"height"`
	Country             string             `json:"country"`
	Objective           string             `json:"objective"`
	Allergies           []string           `json:"allergies"`
	SportiveDescription []string           `json:"sportive_description"`
	MedicalConditions   []string           `json:"medical_conditions"`
	FoodPreferences     []string           `json:"food_preferences"`
	Targets             *nutrition.Targets `json:"targets,omitempty"`
}

// AuthResponse contains authentication response data
type AuthResponse struct {
	User        ProfileDTO `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// JWTClaims represents JWT token claims
type JWTClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// SignUp creates a new account and returns a signed token
func (s *Service) SignUp(ctx context.Context, cmd SignUpCommand) (*AuthResponse, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	s.logger.Info("Registering new user", zap.String("email", cmd.Email))

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	profile := &nutrition.Profile{
		Email:     cmd.Email,
		Name:      cmd.Name,
		Sex:       nutrition.Sex(cmd.Sex),
		Age:       cmd.Age,
		Weight:    cmd.Weight,
		Height:    cmd.Height,
		Country:   cmd.Country,
		Objective: nutrition.Objective(cmd.Objective),
	}

	if err := s.profiles.Create(ctx, profile, string(hash)); err != nil {
		return nil, err
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}

	s.logger.Info("User registered successfully",
		zap.String("user_id", profile.ID.String()),
		zap.String("email", profile.Email),
	)

	return &AuthResponse{
		User:        toDTO(profile),
		AccessToken: token,
		ExpiresIn:   int(s.jwtExpiration.Seconds()),
	}, nil
}

// SignIn authenticates a user and returns a signed token
func (s *Service) SignIn(ctx context.Context, cmd SignInCommand) (*AuthResponse, error) {
	if err := s.validate.Struct(cmd); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	id, hash, err := s.profiles.CredentialsByEmail(ctx, cmd.Email)
	if err != nil {
		// A missing account and a wrong password are indistinguishable to
		// the caller
		return nil, apperrors.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(cmd.Password)); err != nil {
		s.logger.Warn("Invalid password attempt", zap.String("email", cmd.Email))
		return nil, apperrors.NewInvalidCredentialsError()
	}

	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(profile.ID, profile.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", id.String()))

	return &AuthResponse{
		User:        toDTO(profile),
		AccessToken: token,
		ExpiresIn:   int(s.jwtExpiration.Seconds()),
	}, nil
}

// GetProfile retrieves a profile by id
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := toDTO(profile)
	return &dto, nil
}

// UpdateBasicInfo updates the demographic fields of a profile
func (s *Service) UpdateBasicInfo(ctx context.Context, userID uuid.UUID, cmd UpdateBasicInfoCommand) error {
	if err := s.validate.Struct(cmd); err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	profile := &nutrition.Profile{
		ID:        userID,
		Name:      cmd.Name,
		Sex:       nutrition.Sex(cmd.Sex),
		Age:       cmd.Age,
		Weight:    cmd.Weight,
		Height:    cmd.Height,
		Country:   cmd.Country,
		Objective: nutrition.Objective(cmd.Objective),
	}

	if err := s.profiles.UpdateBasicInfo(ctx, profile); err != nil {
		return err
	}

	s.logger.Info("User profile updated", zap.String("user_id", userID.String()))
	return nil
}

// UpdateLifestyle replaces the lifestyle arrays
func (s *Service) UpdateLifestyle(ctx context.Context, userID uuid.UUID, cmd UpdateLifestyleCommand) error {
	if err := s.profiles.UpdateLifestyle(ctx, userID,
		cmd.Allergies, cmd.SportiveDescription, cmd.MedicalConditions, cmd.FoodPreferences); err != nil {
		return err
	}

	s.logger.Info("User lifestyle updated", zap.String("user_id", userID.String()))
	return nil
}

// DeleteAccount removes the profile and everything hanging off it
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("User account deleted", zap.String("user_id", userID.String()))
	return nil
}

// ValidateToken validates a JWT token and returns its claims
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.NewUnauthorizedError("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid token")
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, apperrors.NewUnauthorizedError("invalid token claims")
}

func (s *Service) generateToken(userID uuid.UUID, email string) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   userID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func toDTO(p *nutrition.Profile) ProfileDTO {
	return ProfileDTO{
		ID:                  p.ID,
		Email:               p.Email,
		Name:                p.Name,
		Sex:                 string(p.Sex),
		Age:                 p.Age,
		Weight:              p.Weight,
		Height:              p.Height,
		Country:             p.Country,
		Objective:           string(p.Objective),
		Allergies:           p.Allergies,
		SportiveDescription: p.SportiveDescription,
		MedicalConditions:   p.MedicalConditions,
		FoodPreferences:     p.FoodPreferences,
		Targets:             p.Targets,
	}
}
