package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	apperrors "inventory-system/pkg/errors"
)

func newTypeFixture(t *testing.T) (*EquipmentTypeService, *fakeTypeRepo) {
	t.Helper()
	typeRepo := newFakeTypeRepo()
	return NewEquipmentTypeService(typeRepo, zap.NewNop()), typeRepo
}

func TestCreateEquipmentType_SlugFromName(t *testing.T) {
	svc, _ := newTypeFixture(t)

	d, err := svc.CreateEquipmentType(testCtx(), dto.CreateEquipmentTypeDTO{Name: "Компьютер"})
	require.NoError(t, err)

	assert.Equal(t, "Компьютер", d.Name)
	assert.Equal(t, "kompyuter", d.Slug)
}

func TestUpdateEquipmentType_SlugFollowsNameWhileUnreferenced(t *testing.T) {
	svc, _ := newTypeFixture(t)

	created, err := svc.CreateEquipmentType(testCtx(), dto.CreateEquipmentTypeDTO{Name: "Компьютер"})
	require.NoError(t, err)

	name := "Ноутбук"
	updated, err := svc.UpdateEquipmentType(testCtx(), created.ID, dto.UpdateEquipmentTypeDTO{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "noutbuk", updated.Slug)
}

// Как только на тип ссылается шаблон, slug фиксируется: переименование
// меняет только имя.
func TestUpdateEquipmentType_SlugFrozenWhenReferenced(t *testing.T) {
	svc, typeRepo := newTypeFixture(t)

	created, err := svc.CreateEquipmentType(testCtx(), dto.CreateEquipmentTypeDTO{Name: "Компьютер"})
	require.NoError(t, err)
	typeRepo.refs[created.ID] = true

	name := "Ноутбук"
	updated, err := svc.UpdateEquipmentType(testCtx(), created.ID, dto.UpdateEquipmentTypeDTO{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Ноутбук", updated.Name)
	assert.Equal(t, "kompyuter", updated.Slug)
}

func TestDeleteEquipmentType_BlockedWhenReferenced(t *testing.T) {
	svc, typeRepo := newTypeFixture(t)

	created, err := svc.CreateEquipmentType(testCtx(), dto.CreateEquipmentTypeDTO{Name: "Компьютер"})
	require.NoError(t, err)
	typeRepo.refs[created.ID] = true

	err = svc.DeleteEquipmentType(testCtx(), created.ID)

	var cErr *apperrors.ConflictError
	require.ErrorAs(t, err, &cErr)
	assert.Contains(t, typeRepo.types, created.ID)
}

func TestDeleteEquipmentType(t *testing.T) {
	svc, typeRepo := newTypeFixture(t)

	created, err := svc.CreateEquipmentType(testCtx(), dto.CreateEquipmentTypeDTO{Name: "Компьютер"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEquipmentType(testCtx(), created.ID))
	assert.NotContains(t, typeRepo.types, created.ID)
}
