package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lorrc/ventsite/internal/core/domain"
	apperrors "github.com/lorrc/ventsite/internal/core/errors"
)

func TestServiceRepository_UpsertReplacesByName(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRepository(testPool)
	name := "Монтаж " + uuid.NewString()

	first, err := repo.Upsert(ctx, &domain.Service{Name: name, Description: `["a"]`, Image: "/uploads/1.jpg"})
	require.NoError(t, err)

	second, err := repo.Upsert(ctx, &domain.Service{Name: name, Description: `["a","b"]`, Image: "/uploads/2.jpg"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.DescriptionItems())
	assert.Equal(t, "/uploads/2.jpg", got.Image)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	count := 0
	for _, s := range all {
		if s.Name == name {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestServiceRepository_NotFound(t *testing.T) {
	_, err := NewServiceRepository(testPool).GetByID(context.Background(), 1<<40)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestWorkRepository_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkRepository(testPool)
	title := "Вентиляция офиса " + uuid.NewString()

	created, err := repo.Upsert(ctx, &domain.Work{
		Title:       title,
		Images:      []string{"/uploads/a.jpg", "/uploads/b.jpg"},
		Square:      "120 м²",
		Quantity:    "3",
		Time:        "2 недели",
		SuccessWork: []string{"Чистый воздух"},
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg"}, got.Images)
	assert.Equal(t, []string{"Чистый воздух"}, got.SuccessWork)

	updated, err := repo.Upsert(ctx, &domain.Work{Title: title})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Empty(t, updated.Images)
	assert.NotNil(t, updated.Images)
}

func TestWorkRepository_NotFound(t *testing.T) {
	_, err := NewWorkRepository(testPool).GetByID(context.Background(), 1<<40)
	assert.ErrorIs(t, err, apperrors.ErrWorkNotFound)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(testPool)
	repo := NewServiceRepository(testPool)
	name := "rollback " + uuid.NewString()
	boom := errors.New("boom")

	var insertedID int64
	err := tm.WithTransaction(ctx, func(ctx context.Context) error {
		s, err := repo.Upsert(ctx, &domain.Service{Name: name})
		if err != nil {
			return err
		}
		insertedID = s.ID

		// Nested calls join the outer transaction.
		return tm.WithTransaction(ctx, func(ctx context.Context) error {
			return boom
		})
	})
	require.ErrorIs(t, err, boom)
	require.NotZero(t, insertedID)

	_, err = repo.GetByID(ctx, insertedID)
	assert.ErrorIs(t, err, apperrors.ErrServiceNotFound)
}

func TestTransactionManager_Commits(t *testing.T) {
	ctx := context.Background()
	tm := NewTransactionManager(testPool)
	repo := NewWorkRepository(testPool)
	title := "commit " + uuid.NewString()

	var id int64
	require.NoError(t, tm.WithTransaction(ctx, func(ctx context.Context) error {
		w, err := repo.Upsert(ctx, &domain.Work{Title: title})
		if err != nil {
			return err
		}
		id = w.ID
		return nil
	}))

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
}
