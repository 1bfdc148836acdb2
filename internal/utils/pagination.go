package utils

import "strconv"

// Границы пагинации списков
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ClampLimit разбирает параметр limit из query-строки. Значения вне
// диапазона 1-100 и мусор заменяются значением по умолчанию.
func ClampLimit(raw string) int {
	if limit, err := strconv.Atoi(raw); err == nil && limit > 0 && limit <= MaxLimit {
		return limit
	}
	return DefaultLimit
}
