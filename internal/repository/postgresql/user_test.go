package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	mock_database "gitlab.ozon.dev/pupkingeorgij/delivery/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository/postgresql"
)

// scanRow feeds canned values into Scan the way a pgx.Row would.
type scanRow struct {
	values []interface{}
	err    error
}

func (r scanRow) Scan(dest ...interface{}) error {
	if r.err != nil {
		return r.err
	}
	for i, value := range r.values {
		switch d := dest[i].(type) {
		case *int:
			*d = value.(int)
		case *string:
			*d = value.(string)
		}
	}
	return nil
}

func TestUserRepo_EnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("existing user left untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		// No Exec expectation: an existing account must not be re-inserted.
		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("admin")).
			Return(scanRow{values: []interface{}{1}})

		err := repo.EnsureUser(ctx, "admin", "secret", "admin")
		assert.NoError(t, err)
	})

	t.Run("absent user gets created", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("admin")).
			Return(scanRow{values: []interface{}{0}})
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Eq("admin"), gomock.Any(), gomock.Eq("admin")).
			DoAndReturn(func(_ context.Context, _ string, args ...interface{}) (pgconn.CommandTag, error) {
				hashed := args[1].(string)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("secret")))
				return pgconn.CommandTag("INSERT 0 1"), nil
			})

		err := repo.EnsureUser(ctx, "admin", "secret", "admin")
		assert.NoError(t, err)
	})

	t.Run("count query error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(scanRow{err: expectedErr})

		err := repo.EnsureUser(ctx, "admin", "secret", "admin")
		assert.ErrorIs(t, err, expectedErr)
	})
}

func TestUserRepo_ValidateUser(t *testing.T) {
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	assert.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("admin")).
			Return(scanRow{values: []interface{}{string(hashed)}})

		valid, err := repo.ValidateUser(ctx, "admin", "secret")
		assert.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("wrong password is not an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("admin")).
			Return(scanRow{values: []interface{}{string(hashed)}})

		valid, err := repo.ValidateUser(ctx, "admin", "wrong")
		assert.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("unknown user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewUserRepo(mockDB)

		mockDB.EXPECT().ExecQueryRow(gomock.Any(), gomock.Any(), gomock.Eq("ghost")).
			Return(scanRow{err: errors.New("no rows in result set")})

		valid, err := repo.ValidateUser(ctx, "ghost", "secret")
		assert.Error(t, err)
		assert.False(t, valid)
	})
}
