package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"простая кириллица", "Процессор", "protsessor"},
		{"скобки и латиница", "ОЗУ (DDR4)", "ozu_ddr4"},
		{"пробелы и запятая", "Вес, кг", "ves_kg"},
		{"мягкий знак выпадает", "Компьютер", "kompyuter"},
		{"таджикские буквы", "Ҳаҷм", "hajm"},
		{"латиница остаётся", "CPU Model", "cpu_model"},
		{"обрезка краевых символов", "  !Цвет!  ", "tsvet"},
		{"только спецсимволы", "!!!", "field"},
		{"пустая строка", "", "field"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeKey(tc.input))
		})
	}
}

// Один и тот же label всегда даёт один и тот же ключ, а нормализация
// уже нормализованного ключа ничего не меняет.
func TestNormalizeKey_Deterministic(t *testing.T) {
	first := NormalizeKey("Оперативная память (ГБ)")
	second := NormalizeKey("Оперативная память (ГБ)")
	assert.Equal(t, first, second)
	assert.Equal(t, first, NormalizeKey(first))
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Компьютер", "kompyuter"},
		{"Ремонт Принтера!", "remont-printera"},
		{"Проектор", "proektor"},
		{"МФУ (цветное)", "mfu-tsvetnoe"},
		{"Ноутбук Dell", "noutbuk-dell"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.input), "Slugify(%q)", tc.input)
	}
}
