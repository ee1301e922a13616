package persistence

import (
	"context"
	"testing"

	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/schoolfund/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormUserRepository_FindByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewGormUserRepository(db)
	actorID := uuid.New()

	user, err := identity.NewUser("Ana@School.test", "Ana Souza", "correct-horse", identity.RoleTreasurer, actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), user))

	got, err := repo.FindByEmail(context.Background(), " ANA@school.test ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, identity.RoleTreasurer, got.Role)
	assert.True(t, got.CheckPassword("correct-horse"))

	_, err = repo.FindByEmail(context.Background(), "nobody@school.test")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStudentRepository_Filters(t *testing.T) {
	db := testDB(t)
	repo := NewGormStudentRepository(db)
	actorID := uuid.New()

	s1, err := school.NewStudent("Joana Prado", "3B", 2027, "Rui Prado", "", actorID)
	require.NoError(t, err)
	s2, err := school.NewStudent("Caio Lima", "3B", 2028, "Vera Lima", "", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), s1))
	require.NoError(t, repo.Save(context.Background(), s2))

	filter := shared.DefaultFilter()
	filter.Filters["graduation_year"] = 2027
	students, err := repo.FindAll(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Joana Prado", students[0].FullName)

	count, err := repo.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	require.NoError(t, repo.Delete(context.Background(), s2.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), s2.ID), shared.ErrNotFound)
}
