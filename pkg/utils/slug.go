package utils

import (
	"regexp"
	"strings"
)

// Транслитерация кириллицы (включая таджикские буквы) в латиницу.
// Таблица фиксированная: один и тот же display label всегда даёт один и
// тот же ключ — на этом держится слияние ключей между спецификациями.
var translitMap = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d",
	'е': "e", 'ё': "yo", 'ж': "zh", 'з': "z", 'и': "i",
	'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n",
	'о': "o", 'п': "p", 'р': "r", 'с': "s", 'т': "t",
	'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts", 'ч': "ch",
	'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "",
	'э': "e", 'ю': "yu", 'я': "ya",
	'ғ': "gh", 'ӣ': "i", 'қ': "q", 'ӯ': "u", 'ҳ': "h", 'ҷ': "j",
}

func transliterate(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if repl, ok := translitMap[r]; ok {
			sb.WriteString(repl)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// NormalizeKey создает ключ характеристики из display label.
// "Процессор" -> "protsessor", "ОЗУ (DDR4)" -> "ozu_ddr4".
// Пустой результат заменяется на "field", чтобы ключ никогда не был пустым.
func NormalizeKey(displayLabel string) string {
	res := transliterate(strings.TrimSpace(displayLabel))
	res = nonAlnum.ReplaceAllString(res, "_")
	res = strings.Trim(res, "_")
	if res == "" {
		return "field"
	}
	return res
}

// Slugify создает слаг для типа оборудования.
// "Ремонт Принтера!" -> "remont-printera"
func Slugify(name string) string {
	res := transliterate(strings.TrimSpace(name))
	res = nonAlnum.ReplaceAllString(res, "-")
	return strings.Trim(res, "-")
}
