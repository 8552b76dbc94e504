package services

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/Adilzhan2201/Special_Network/internal/models"
	"github.com/Adilzhan2201/Special_Network/pkg/apperrors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	if user.Email == "" || user.Name == "" || password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", apperrors.ErrInvalidInput)
	}

	if !emailRegex.MatchString(user.Email) {
		return nil, fmt.Errorf("%w: malformed email address", apperrors.ErrInvalidInput)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}
	user.HashedPassword = string(hashedPwd)

	if user.Privacy == "" {
		user.Privacy = "public"
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user
// if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, apperrors.ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfile applies the caller's profile changes. Only a fixed set
// of fields may be touched.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, updates map[string]string) (*models.User, error) {
	allowed := map[string]bool{
		"name":            true,
		"bio":             true,
		"disability":      true,
		"privacy":         true,
		"profile_picture": true,
	}

	fields := bson.M{}
	for key, value := range updates {
		if allowed[key] {
			fields[key] = value
		}
	}
	if len(fields) == 0 {
		return s.repo.GetUserByID(ctx, id)
	}

	user, err := s.repo.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	logrus.WithField("userID", id.Hex()).Info("Profile updated")
	return user, nil
}
