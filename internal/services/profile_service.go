package services

import (
	"errors"
	"fmt"

	"github.com/Brettk80/new2025/internal/models"
	"github.com/Brettk80/new2025/internal/supabase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProfileService maps auth users to rows of the users table.
type ProfileService struct {
	logger *zap.Logger
}

func NewProfileService(logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{logger: logger}
}

// Get returns the profile linked to authID, or ErrNotFound.
func (s *ProfileService) Get(client *supabase.Client, authID uuid.UUID) (models.User, error) {
	rows, err := supabase.Select(client, models.Users, supabase.SelectOptions{
		Where: supabase.Where{models.ColAuthID: authID},
		Limit: 1,
	})
	if err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, ErrNotFound
	}
	return rows[0], nil
}

func (s *ProfileService) Create(client *supabase.Client, authID uuid.UUID, email string) (models.User, error) {
	rows, err := supabase.Insert(client, models.Users, models.UserInsert{
		AuthID: authID,
		Email:  email,
	}, supabase.WriteOptions{})
	if err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, fmt.Errorf("failed to create profile: %w", supabase.ErrNoData)
	}

	s.logger.Info("created profile",
		zap.String("user_id", rows[0].ID.String()),
		zap.String("auth_id", authID.String()),
	)
	return rows[0], nil
}

// Ensure returns the profile for authID, creating it on first use.
func (s *ProfileService) Ensure(client *supabase.Client, authID uuid.UUID, email string) (models.User, error) {
	user, err := s.Get(client, authID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}
	return s.Create(client, authID, email)
}

// UpdateDetails changes the optional company name and phone.
func (s *ProfileService) UpdateDetails(client *supabase.Client, userID uuid.UUID, companyName, phone *string) (models.User, error) {
	rows, err := supabase.Update(client, models.Users, models.UserUpdate{
		CompanyName: companyName,
		Phone:       phone,
	}, supabase.Where{models.ColID: userID}, supabase.WriteOptions{})
	if err != nil {
		return models.User{}, err
	}
	if len(rows) == 0 {
		return models.User{}, ErrNotFound
	}
	return rows[0], nil
}
