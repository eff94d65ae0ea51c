package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	"inventory-system/internal/entities"
	"inventory-system/pkg/contextkeys"
	apperrors "inventory-system/pkg/errors"
	"inventory-system/pkg/types"
)

func newBulkFixture(t *testing.T) (*BulkService, *equipmentFixture) {
	t.Helper()
	f := newEquipmentFixture(t)
	svc := NewBulkService(f.svc, f.equipRepo, &fakeTxManager{}, zap.NewNop())
	return svc, f
}

func TestBulkCreate(t *testing.T) {
	svc, f := newBulkFixture(t)

	res, err := svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID: 1,
		Name:   "Проектор Epson",
		Count:  3,
		Inns:   []string{"PR-1", "PR-2", "PR-3"},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, res.CreatedCount)
	require.Len(t, res.EquipmentIDs, 3)

	tags := make(map[string]bool)
	for i, id := range res.EquipmentIDs {
		e := f.equipRepo.items[id]
		assert.Equal(t, entities.StatusInStock, e.Status)
		require.NotNil(t, e.Inn)
		assert.Equal(t, []string{"PR-1", "PR-2", "PR-3"}[i], *e.Inn)
		tags[e.UniqueTag] = true
	}
	assert.Len(t, tags, 3, "у каждой единицы своя уникальная метка")

	// Имена нумеруются при count > 1.
	assert.Equal(t, "Проектор Epson #1", f.equipRepo.items[res.EquipmentIDs[0]].Name)
	assert.Equal(t, "Проектор Epson #3", f.equipRepo.items[res.EquipmentIDs[2]].Name)
}

func TestBulkCreate_SingleKeepsName(t *testing.T) {
	svc, f := newBulkFixture(t)

	res, err := svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID: 1,
		Name:   "Проектор Epson",
		Count:  1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Проектор Epson", f.equipRepo.items[res.EquipmentIDs[0]].Name)
}

func TestBulkCreate_InnsLengthMismatch(t *testing.T) {
	svc, _ := newBulkFixture(t)

	_, err := svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID: 1,
		Name:   "Проектор",
		Count:  5,
		Inns:   []string{"PR-1", "PR-2"},
	})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "inns")
}

// Единственный дубликат внутри партии отменяет её целиком, ошибка
// указывает индекс конфликтующей позиции.
func TestBulkCreate_DuplicateInnWithinBatch(t *testing.T) {
	svc, f := newBulkFixture(t)

	_, err := svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID: 1,
		Name:   "Проектор",
		Count:  5,
		Inns:   []string{"PR-1", "PR-2", "PR-3", "PR-2", "PR-5"},
	})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "inns[3]")
	assert.Empty(t, f.equipRepo.items, "не создано ни одной строки")
}

func TestBulkCreate_InnTakenOutsideBatch(t *testing.T) {
	svc, f := newBulkFixture(t)

	taken := "PR-2"
	_, err := f.equipRepo.CreateEquipment(testCtx(), nil, entities.Equipment{
		UniversityID: 1, TypeID: 1, Name: "Старый проектор",
		Status: entities.StatusInStock, UniqueTag: "old", Inn: &taken,
	})
	require.NoError(t, err)

	_, err = svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID: 1,
		Name:   "Проектор",
		Count:  3,
		Inns:   []string{"PR-1", "PR-2", "PR-3"},
	})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "inns[1]")
	assert.Len(t, f.equipRepo.items, 1, "в хранилище осталась только старая строка")
}

func TestBulkCreate_GlobalScopeRejected(t *testing.T) {
	svc, _ := newBulkFixture(t)
	ctx := context.WithValue(context.Background(), contextkeys.TenantScopeKey, types.GlobalScope())

	_, err := svc.BulkCreate(ctx, dto.BulkCreateEquipmentDTO{TypeID: 1, Name: "Проектор", Count: 2})

	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
}

// Каждая единица партии получает собственную глубокую копию характеристик
// шаблона, а не общую ссылку.
func TestBulkCreate_IndependentSpecCopies(t *testing.T) {
	svc, f := newBulkFixture(t)

	specID, err := f.specRepo.CreateSpecification(testCtx(), entities.Specification{
		UniversityID: 1, TypeID: 1, Name: "Типовой проектор",
		Specs: entities.Characteristics{
			"yarkost": {Display: "Яркость", Value: map[string]interface{}{"lm": 3000}},
		},
	})
	require.NoError(t, err)

	res, err := svc.BulkCreate(testCtx(), dto.BulkCreateEquipmentDTO{
		TypeID:          1,
		SpecificationID: &specID,
		Name:            "Проектор",
		Count:           2,
	})
	require.NoError(t, err)

	first := f.equipRepo.items[res.EquipmentIDs[0]]
	second := f.equipRepo.items[res.EquipmentIDs[1]]

	first.Specs["yarkost"].Value.(map[string]interface{})["lm"] = 4000
	assert.Equal(t, 3000, second.Specs["yarkost"].Value.(map[string]interface{})["lm"])
	assert.Equal(t, 3000, f.specRepo.specs[specID].Specs["yarkost"].Value.(map[string]interface{})["lm"])
}
