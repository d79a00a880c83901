package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Lawrence9908/ecommerce-backend-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateUser(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	insert := regexp.QuoteMeta(`INSERT INTO users (id, name, email, password, role, created_at, updated_at)`)

	t.Run("success assigns id and default role", func(t *testing.T) {
		dbMock.ExpectExec(insert).
			WithArgs(sqlmock.AnyArg(), "Ada", "ada@example.com", "hash", "customer", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		user := &model.User{Name: "Ada", Email: "ada@example.com", Password: "hash"}
		err := repo.CreateUser(context.Background(), user)

		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, model.RoleCustomer, user.Role)
		assert.False(t, user.CreatedAt.IsZero())
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to duplicate email", func(t *testing.T) {
		dbMock.ExpectExec(insert).WillReturnError(&pq.Error{Code: "23505"})

		err := repo.CreateUser(context.Background(), &model.User{Name: "Ada", Email: "ada@example.com", Password: "hash"})

		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByEmail(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	query := regexp.QuoteMeta(`SELECT id, name, email, password, role, created_at, updated_at FROM users WHERE email = $1`)
	columns := []string{"id", "name", "email", "password", "role", "created_at", "updated_at"}

	t.Run("found", func(t *testing.T) {
		now := time.Now()
		dbMock.ExpectQuery(query).WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows(columns).AddRow("u-1", "Ada", "ada@example.com", "hash", "admin", now, now))

		user, err := repo.GetUserByEmail(context.Background(), "ada@example.com")

		require.NoError(t, err)
		assert.Equal(t, "u-1", user.ID)
		assert.Equal(t, model.RoleAdmin, user.Role)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		dbMock.ExpectQuery(query).WithArgs("nobody@example.com").WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")

		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, dbMock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateUserRole(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	update := regexp.QuoteMeta(`UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`)

	dbMock.ExpectExec(update).WithArgs("admin", sqlmock.AnyArg(), "u1").WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateUserRole(context.Background(), "u1", model.RoleAdmin))

	dbMock.ExpectExec(update).WithArgs("admin", sqlmock.AnyArg(), "missing").WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateUserRole(context.Background(), "missing", model.RoleAdmin), ErrNotFound)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}
