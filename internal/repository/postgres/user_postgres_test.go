package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printapi/internal/model"
)

var userRowColumns = []string{"id", "first_name", "last_name", "email", "phone", "role", "created_at"}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows(userRowColumns).
				AddRow("u1", "Ada", "Lovelace", "ada@example.com", nil, "USER", time.Now()))

		u, err := repo.FindByID(ctx, "u1")

		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", u.Email)
		assert.Empty(t, u.Phone)
		assert.Equal(t, model.RoleUser, u.Role)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email").
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows(userRowColumns).
			AddRow("u1", "Ada", "Lovelace", "ada@example.com", "0612345678", "ADMIN", time.Now()))

	u, err := repo.FindByEmail(ctx, "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, model.RoleAdmin, u.Role)
}
