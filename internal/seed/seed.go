package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/schoolhub/internal/app/models"
	appRepos "github.com/yigit/schoolhub/internal/app/repositories"
	"github.com/yigit/schoolhub/internal/pkg/apperrors"
	"github.com/yigit/schoolhub/internal/pkg/auth"
	"github.com/yigit/schoolhub/internal/pkg/helpers"
)

// Options controls the bootstrap admin account. No account is created without a password.
type Options struct {
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// DefaultSubjects is the subject catalogue of a fresh install
var DefaultSubjects = []appModels.Subject{
	{Name: "Mathematics", Code: "MATH"},
	{Name: "Physics", Code: "PHYS"},
	{Name: "Chemistry", Code: "CHEM"},
	{Name: "Biology", Code: "BIO"},
	{Name: "English", Code: "ENG"},
	{Name: "History", Code: "HIST"},
	{Name: "Geography", Code: "GEO"},
	{Name: "Art", Code: "ART"},
	{Name: "Physical Education", Code: "PE"},
	{Name: "Computer Science", Code: "CS"},
}

// CreateDefaultData creates default subjects and the configured admin account if they don't exist.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, opts Options, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (subjects/admin)...")
	var finalErr error

	created := 0
	for _, s := range DefaultSubjects {
		subject := s
		_, err := repos.SubjectRepository.Create(ctx, &subject)
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperrors.ErrConflict):
			// already present
		default:
			lgr.Error().Err(err).Str("code", s.Code).Msg("Error creating default subject")
			finalErr = errors.Join(finalErr, err)
		}
	}
	lgr.Info().Int("created", created).Msg("Default subjects checked")

	if err := createAdmin(ctx, repos.UserRepository, opts, lgr); err != nil {
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, users appRepos.IUserRepository, opts Options, lgr zerolog.Logger) error {
	email := helpers.NormalizeEmail(opts.AdminEmail)
	if email == "" || opts.AdminPassword == "" {
		lgr.Info().Msg("No bootstrap admin configured, skipping creation")
		return nil
	}

	if _, err := users.GetByEmail(ctx, email); err == nil {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	} else if !errors.Is(err, apperrors.ErrResourceNotFound) {
		lgr.Error().Err(err).Msg("Error checking if admin user exists")
		return err
	}

	hash, err := auth.HashPassword(opts.AdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	name := opts.AdminName
	if name == "" {
		name = "System Administrator"
	}

	adminID, err := users.Create(ctx, &appModels.User{
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     appModels.RoleAdmin,
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		return err
	}

	lgr.Info().Int64("adminID", adminID).Msg("Default admin user created successfully")
	return nil
}
