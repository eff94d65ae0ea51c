package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-system/internal/dto"
	apperrors "inventory-system/pkg/errors"
)

// ImportReportDTO — итог импорта одного xlsx-файла.
type ImportReportDTO struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// EquipmentImportService загружает технику из xlsx-выгрузок.
// Шапка таблицы ищется по содержимому, а не по фиксированной строке:
// выгрузки из разных деканатов отличаются оформлением.
type EquipmentImportService struct {
	equipmentSvc *EquipmentService
	typeSvc      *EquipmentTypeService
	logger       *zap.Logger
}

func NewEquipmentImportService(
	equipmentSvc *EquipmentService,
	typeSvc *EquipmentTypeService,
	logger *zap.Logger,
) *EquipmentImportService {
	return &EquipmentImportService{
		equipmentSvc: equipmentSvc,
		typeSvc:      typeSvc,
		logger:       logger,
	}
}

// Import читает xlsx и создаёт технику указанного типа. Ожидаемые
// колонки: наименование («наименование»/«название»), инвентарный номер
// («инв»/«номер»/«№»), описание («описание»/«примечание», опционально).
func (s *EquipmentImportService) Import(ctx context.Context, typeID uint64, r io.Reader) (*ImportReportDTO, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewValidationError("Не удалось открыть xlsx-файл: %v", err)
	}
	defer f.Close()

	nameIdx, innIdx, descIdx := -1, -1, -1
	headerRow := -1
	var dataRows [][]string

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		for rIdx, row := range rows {
			rowStr := strings.ToLower(strings.Join(row, "|"))
			hasName := strings.Contains(rowStr, "наименование") || strings.Contains(rowStr, "название")
			hasInn := strings.Contains(rowStr, "инв") || strings.Contains(rowStr, "номер") || strings.Contains(rowStr, "№")

			if hasName && hasInn {
				for cIdx, colName := range row {
					c := strings.ToLower(strings.TrimSpace(colName))
					switch {
					case strings.Contains(c, "наименование") || strings.Contains(c, "название"):
						nameIdx = cIdx
					case strings.Contains(c, "инв") || strings.Contains(c, "номер") || strings.Contains(c, "№"):
						innIdx = cIdx
					case strings.Contains(c, "описание") || strings.Contains(c, "примечание"):
						descIdx = cIdx
					}
				}
				if nameIdx != -1 && innIdx != -1 {
					headerRow = rIdx
					dataRows = rows
					break
				}
			}
		}
		if headerRow != -1 {
			break
		}
	}

	if headerRow == -1 {
		return nil, apperrors.NewValidationError(
			"Не найдена шапка таблицы: нужны колонки с наименованием и инвентарным номером")
	}

	report := &ImportReportDTO{Errors: []string{}}
	for i := headerRow + 1; i < len(dataRows); i++ {
		row := dataRows[i]
		name := safeCell(row, nameIdx)
		if name == "" {
			report.Skipped++
			continue
		}

		payload := dto.CreateEquipmentDTO{
			TypeID:      typeID,
			Name:        name,
			Description: safeCell(row, descIdx),
		}
		if inn := safeCell(row, innIdx); inn != "" {
			payload.Inn.SetValid(inn)
		}

		if _, err := s.equipmentSvc.CreateEquipment(ctx, payload); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("строка %d (%s): %v", i+1, name, err))
			continue
		}
		report.Created++
	}

	s.logger.Info("Импорт техники завершён",
		zap.Int("created", report.Created),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", len(report.Errors)))
	return report, nil
}

func safeCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
