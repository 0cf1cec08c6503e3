package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// creates a new user repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

func scanUser(row pgx.Row) (*User, error) {
	var user User

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.Email,
		&user.Role,
		&user.AvatarURL,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// inserts a new canonical user row; unique violations surface as pgconn
// errors for the caller to map
func (r *Repository) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	return scanUser(r.db.QueryRow(
		ctx,
		queryCreateUser,
		req.Username,
		req.DisplayName,
		req.Email,
		req.Role,
		req.AvatarURL,
		req.PasswordHash,
	))
}

// finds a user by their ID
func (r *Repository) FindByID(ctx context.Context, userID string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByID, userID))
}

// finds a user by username
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByUsername, username))
}

// finds a user by email, case-insensitively
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByEmail, email))
}

// finds the user linked to an external (provider, subject) pair
func (r *Repository) FindByProviderSubject(ctx context.Context, provider, subject string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryFindByProviderSubject, provider, subject))
}

// attaches an external identity to a user; reports whether the link was
// inserted, false meaning the (provider, subject) pair is already claimed
func (r *Repository) LinkIdentity(ctx context.Context, userID, provider, subject string) (bool, error) {
	tag, err := r.db.Exec(ctx, queryLinkIdentity, userID, provider, subject)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// updates a user's display name and avatar URL
func (r *Repository) UpdateProfile(ctx context.Context, userID, displayName, avatarURL string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdateProfile, displayName, avatarURL, userID))
}

// changes a user's role
func (r *Repository) UpdateRole(ctx context.Context, userID, role string) (*User, error) {
	return scanUser(r.db.QueryRow(ctx, queryUpdateRole, role, userID))
}

// lists users ordered by creation time
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, error) {
	rows, err := r.db.Query(ctx, queryListUsers, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*User

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}

	return list, rows.Err()
}
