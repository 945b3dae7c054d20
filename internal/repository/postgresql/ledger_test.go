package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/delivery/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository/postgresql"
)

func TestLedgerRepo_TryRecord(t *testing.T) {
	ctx := context.Background()
	sentAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("first writer inserts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLedgerRepo(mockDB)

		mockDB.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq("ship-123"),
			gomock.Eq("picked_up"),
			gomock.Eq("rider"),
			gomock.Eq(sentAt),
		).Return(pgconn.CommandTag("INSERT 0 1"), nil)

		inserted, err := repo.TryRecord(ctx, "ship-123", "picked_up", "rider", sentAt)
		assert.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("duplicate tuple hits the conflict clause", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLedgerRepo(mockDB)

		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(pgconn.CommandTag("INSERT 0 0"), nil)

		inserted, err := repo.TryRecord(ctx, "ship-123", "picked_up", "rider", sentAt)
		assert.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLedgerRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		inserted, err := repo.TryRecord(ctx, "ship-123", "picked_up", "rider", sentAt)
		assert.ErrorIs(t, err, expectedErr)
		assert.False(t, inserted)
	})
}

func TestLedgerRepo_GetByShipmentID(t *testing.T) {
	ctx := context.Background()

	t.Run("records found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLedgerRepo(mockDB)

		sentAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		testRecords := []*repository.NotificationRecord{
			{ShipmentID: "ship-123", Status: "assigned", RecipientRole: "rider", SentAt: sentAt},
			{ShipmentID: "ship-123", Status: "picked_up", RecipientRole: "rider", SentAt: sentAt.Add(time.Hour)},
		}

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("ship-123")).
			DoAndReturn(func(_ context.Context, dest *[]*repository.NotificationRecord, _ string, _ string) error {
				*dest = testRecords
				return nil
			})

		records, err := repo.GetByShipmentID(ctx, "ship-123")
		assert.NoError(t, err)
		assert.Equal(t, testRecords, records)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewLedgerRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedErr)

		records, err := repo.GetByShipmentID(ctx, "ship-123")
		assert.Equal(t, expectedErr, err)
		assert.Nil(t, records)
	})
}
