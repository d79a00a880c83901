package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/logger"
	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user persistence.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserRole(ctx context.Context, id string, role model.Role) error
}

// UserRepository implements IUserRepository on Postgres.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// prepareUser fills the fields every backend assigns on insert.
func prepareUser(user *model.User) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = model.RoleCustomer
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
}

func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	prepareUser(user)
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (id, name, email, password, role, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.DB.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Password, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = $1`
	return r.getUser(ctx, query, email)
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE id = $1`
	return r.getUser(ctx, query, id)
}

// UpdateUserRole sets the role of the user with the given id.
func (r *UserRepository) UpdateUserRole(ctx context.Context, id string, role model.Role) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": id,
		"role":    role,
	})
	log.Info("Executing query to update user role")

	query := `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, string(role), time.Now().UTC(), id)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user role query")
		return err
	}
	return expectAffected(res)
}

func (r *UserRepository) getUser(ctx context.Context, query string, arg string) (*model.User, error) {
	user := &model.User{}
	var role string
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Log.WithError(err).Error("Failed to execute get user query")
		return nil, err
	}
	user.Role = model.Role(role)
	return user, nil
}
