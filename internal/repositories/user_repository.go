package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"server-yool/internal/geo"
	"server-yool/internal/interfaces"
	"server-yool/internal/schemas"
)

const userColumns = `user_id, email, username, password, birthdate, avatar, activated, hashtags,
	last_location IS NOT NULL, COALESCE(ST_Y(last_location::geometry), 0), COALESCE(ST_X(last_location::geometry), 0),
	notification_ios, notification_android, created_at, updated_at`

// UserRepo stores user accounts.
type UserRepo interface {
	GetByID(ctx context.Context, userId string) (*schemas.User, error)
	GetByEmail(ctx context.Context, email string) (*schemas.User, error)
	Create(ctx context.Context, user *schemas.User) error
	Update(ctx context.Context, userId, username string, birthdate int64) (*schemas.User, error)
	Delete(ctx context.Context, userId string) error
	UpdateLocation(ctx context.Context, userId string, location geo.Point) error
	AddHashtag(ctx context.Context, userId, hashtag string) error
	RemoveHashtag(ctx context.Context, userId, hashtag string) error
	AddNotificationToken(ctx context.Context, userId, platform, token string) error
	TouchLastSeen(ctx context.Context, userId string) error
}

type UserRepository struct {
	pool interfaces.PgxPoolIface
	now  func() time.Time
}

func NewUserRepository(pool interfaces.PgxPoolIface) UserRepo {
	return &UserRepository{pool: pool, now: time.Now}
}

func (repo *UserRepository) GetByID(ctx context.Context, userId string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM yool_schema.users WHERE user_id = $1"
	return scanUser(repo.pool.QueryRow(ctx, queryString, userId))
}

func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (*schemas.User, error) {
	queryString := "SELECT " + userColumns + " FROM yool_schema.users WHERE email = $1"
	return scanUser(repo.pool.QueryRow(ctx, queryString, email))
}

// Create inserts a new user. A taken email yields ErrConflict.
func (repo *UserRepository) Create(ctx context.Context, user *schemas.User) error {
	queryString := `INSERT INTO yool_schema.users (user_id, email, username, password, birthdate, avatar, activated, hashtags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := repo.pool.Exec(ctx, queryString, user.UserId, user.Email, user.Username, user.Password, user.Birthdate,
		user.Avatar, user.Activated, user.Hashtags, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", translateError(err))
	}
	return nil
}

// Update changes the username and birthdate and returns the updated user.
func (repo *UserRepository) Update(ctx context.Context, userId, username string, birthdate int64) (*schemas.User, error) {
	queryString := "UPDATE yool_schema.users SET username = $2, birthdate = $3, updated_at = $4 WHERE user_id = $1 RETURNING " + userColumns
	return scanUser(repo.pool.QueryRow(ctx, queryString, userId, username, birthdate, repo.now()))
}

func (repo *UserRepository) Delete(ctx context.Context, userId string) error {
	tag, err := repo.pool.Exec(ctx, "DELETE FROM yool_schema.users WHERE user_id = $1", userId)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return requireAffected(tag, ErrNotFound)
}

func (repo *UserRepository) UpdateLocation(ctx context.Context, userId string, location geo.Point) error {
	x, y := location.XY()
	queryString := `UPDATE yool_schema.users SET last_location = ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, updated_at = $4
		WHERE user_id = $1`
	tag, err := repo.pool.Exec(ctx, queryString, userId, x, y, repo.now())
	if err != nil {
		return fmt.Errorf("update location: %w", err)
	}
	return requireAffected(tag, ErrNotFound)
}

// AddHashtag follows hashtag. ErrNoChange if it is already followed.
func (repo *UserRepository) AddHashtag(ctx context.Context, userId, hashtag string) error {
	queryString := `UPDATE yool_schema.users SET hashtags = array_append(hashtags, $2), updated_at = $3
		WHERE user_id = $1 AND NOT ($2 = ANY(hashtags))`
	tag, err := repo.pool.Exec(ctx, queryString, userId, hashtag, repo.now())
	if err != nil {
		return fmt.Errorf("add hashtag: %w", err)
	}
	return requireAffected(tag, ErrNoChange)
}

// RemoveHashtag unfollows hashtag. ErrNoChange if it was not followed.
func (repo *UserRepository) RemoveHashtag(ctx context.Context, userId, hashtag string) error {
	queryString := `UPDATE yool_schema.users SET hashtags = array_remove(hashtags, $2), updated_at = $3
		WHERE user_id = $1 AND $2 = ANY(hashtags)`
	tag, err := repo.pool.Exec(ctx, queryString, userId, hashtag, repo.now())
	if err != nil {
		return fmt.Errorf("remove hashtag: %w", err)
	}
	return requireAffected(tag, ErrNoChange)
}

// AddNotificationToken registers a device token for platform "ios" or "android".
func (repo *UserRepository) AddNotificationToken(ctx context.Context, userId, platform, token string) error {
	var column string
	switch platform {
	case "ios":
		column = "notification_ios"
	case "android":
		column = "notification_android"
	default:
		return fmt.Errorf("unknown notification platform %q", platform)
	}

	queryString := "UPDATE yool_schema.users SET " + column + " = array_append(" + column + ", $2) " +
		"WHERE user_id = $1 AND NOT ($2 = ANY(" + column + "))"
	tag, err := repo.pool.Exec(ctx, queryString, userId, token)
	if err != nil {
		return fmt.Errorf("add notification token: %w", err)
	}
	return requireAffected(tag, ErrNoChange)
}

// TouchLastSeen refreshes the last activity timestamp of the user.
func (repo *UserRepository) TouchLastSeen(ctx context.Context, userId string) error {
	_, err := repo.pool.Exec(ctx, "UPDATE yool_schema.users SET updated_at = $2 WHERE user_id = $1", userId, repo.now())
	if err != nil {
		return fmt.Errorf("touch last seen: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	var hasLocation bool
	var latitude, longitude float64

	err := row.Scan(&user.UserId, &user.Email, &user.Username, &user.Password, &user.Birthdate, &user.Avatar,
		&user.Activated, &user.Hashtags, &hasLocation, &latitude, &longitude,
		&user.NotificationToken.Ios, &user.NotificationToken.Android, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	if hasLocation {
		location := geo.FromXY(longitude, latitude).Location()
		user.LastLocation = &location
	}
	return user, nil
}
