package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_database "gitlab.ozon.dev/pupkingeorgij/delivery/internal/db/mocks"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository"
	"gitlab.ozon.dev/pupkingeorgij/delivery/internal/repository/postgresql"
)

func TestHistoryRepo_CreateTx(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		entry := &repository.HistoryEntry{
			ShipmentID: "ship-123",
			Status:     "picked_up",
			Actor:      "rider-1",
			ChangedAt:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		}

		mockTx.EXPECT().Exec(
			gomock.Any(),
			gomock.Any(),
			gomock.Eq(entry.ShipmentID),
			gomock.Eq(entry.Status),
			gomock.Eq(entry.Actor),
			gomock.Eq(entry.ChangedAt),
		).Return(nil, nil)

		err := repo.CreateTx(ctx, mockTx, entry)
		assert.NoError(t, err)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		mockTx := mock_database.NewMockTx(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		expectedErr := errors.New("database error")
		mockTx.EXPECT().Exec(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, expectedErr)

		err := repo.CreateTx(ctx, mockTx, &repository.HistoryEntry{ShipmentID: "ship-123"})
		assert.Equal(t, expectedErr, err)
	})
}

func TestHistoryRepo_GetByShipmentID(t *testing.T) {
	ctx := context.Background()

	t.Run("entries in order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
		testEntries := []*repository.HistoryEntry{
			{ShipmentID: "ship-123", Status: "created", Actor: "admin", ChangedAt: now},
			{ShipmentID: "ship-123", Status: "assigned", Actor: "admin", ChangedAt: now.Add(time.Hour)},
		}

		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("ship-123")).
			DoAndReturn(func(_ context.Context, dest *[]*repository.HistoryEntry, _ string, _ string) error {
				*dest = testEntries
				return nil
			})

		entries, err := repo.GetByShipmentID(ctx, "ship-123")
		assert.NoError(t, err)
		assert.Equal(t, testEntries, entries)
	})

	t.Run("database error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockDB := mock_database.NewMockDB(ctrl)
		repo := postgresql.NewHistoryRepo(mockDB)

		expectedErr := errors.New("database error")
		mockDB.EXPECT().Select(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedErr)

		entries, err := repo.GetByShipmentID(ctx, "ship-123")
		assert.Equal(t, expectedErr, err)
		assert.Nil(t, entries)
	})
}
