package repository

import (
	"context"
	"database/sql"

	"chatz/internal/storage/postgres"
	"chatz/internal/user"
	models "chatz/internal/user/model"
	"chatz/pkg/identity"
	"chatz/pkg/logger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

var _ user.UserRepository = (*UserRepository)(nil)

type UserRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewUserRepository(db *bun.DB, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, u *models.User) error {
	if u.EncryptedKeys == nil {
		u.EncryptedKeys = map[string]string{}
	}
	_, err := r.db.NewInsert().Model(u).Exec(ctx)
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			if constraint == "users_pkey" {
				return user.ErrPrincipalExists
			}
			return user.ErrUsernameTaken
		}
		return errors.Wrap(err, "userRepo.CreateUser.Insert")
	}
	return nil
}

func (r *UserRepository) GetUserByPrincipal(ctx context.Context, principal identity.Principal) (*models.User, error) {
	u := new(models.User)
	err := r.db.NewSelect().Model(u).Where("principal = ?", principal).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "userRepo.GetUserByPrincipal.Scan")
	}
	return u, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u := new(models.User)
	err := r.db.NewSelect().Model(u).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "userRepo.GetUserByUsername.Scan")
	}
	return u, nil
}

// UpdateUser only writes the profile columns so concurrent counter bumps
// are not lost. u is refreshed from the returned row.
func (r *UserRepository) UpdateUser(ctx context.Context, u *models.User) error {
	res, err := r.db.NewUpdate().
		Model(u).
		Column("username", "bio", "avatar_url", "last_active").
		WherePK().
		Returning("*").
		Exec(ctx)
	if err != nil {
		if _, ok := postgres.UniqueViolation(err); ok {
			return user.ErrUsernameTaken
		}
		if errors.Is(err, sql.ErrNoRows) {
			return user.ErrUserNotFound
		}
		return errors.Wrap(err, "userRepo.UpdateUser.Update")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := r.db.NewSelect().Model(&users).Order("joined_at ASC", "principal ASC").Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.ListUsers.Scan")
	}
	return users, nil
}

func (r *UserRepository) ListPrincipals(ctx context.Context) ([]identity.Principal, error) {
	var raw []string
	err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Column("principal").
		Order("joined_at ASC", "principal ASC").
		Scan(ctx, &raw)
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.ListPrincipals.Scan")
	}
	out := make([]identity.Principal, len(raw))
	for i, p := range raw {
		out[i] = identity.Principal(p)
	}
	return out, nil
}

func (r *UserRepository) CountUsers(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "userRepo.CountUsers.Count")
	}
	return count, nil
}

func (r *UserRepository) SetEncryptedKey(ctx context.Context, principal identity.Principal, tag, value string) error {
	res, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("encrypted_keys = encrypted_keys || jsonb_build_object(?::text, ?::text)", tag, value).
		Where("principal = ?", principal).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "userRepo.SetEncryptedKey.Update")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
