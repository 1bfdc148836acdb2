package client

import (
	"net/url"
	"strconv"
	"strings"
)

// Filter представляет фильтры каталога на стороне клиента.
// Нулевое значение поля означает отсутствие ограничения.
type Filter struct {
	Category   string
	Conditions []string
	MinPrice   float64
	MaxPrice   float64
	Search     string
	Sort       string
	Limit      int
	Offset     int
}

// Values кодирует фильтр в query-параметры. Кодирование детерминировано:
// одинаковый фильтр всегда дает одинаковый набор параметров.
func (f Filter) Values() url.Values {
	query := url.Values{}

	if f.Category != "" {
		query.Set("category", f.Category)
	}
	if len(f.Conditions) > 0 {
		query.Set("conditions", strings.Join(f.Conditions, ","))
	}
	if f.MinPrice > 0 {
		query.Set("min_price", strconv.FormatFloat(f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice > 0 {
		query.Set("max_price", strconv.FormatFloat(f.MaxPrice, 'f', -1, 64))
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	if f.Sort != "" {
		query.Set("sort", f.Sort)
	}
	if f.Limit > 0 {
		query.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		query.Set("offset", strconv.Itoa(f.Offset))
	}

	return query
}

// Encode возвращает строку query-параметров фильтра
func (f Filter) Encode() string {
	return f.Values().Encode()
}
