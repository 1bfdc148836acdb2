package tool

import (
	"reflect"
	"strings"
	"testing"
)

func TestBuildQueryDeterministic(t *testing.T) {
	filter := Filter{
		Category:   "table_saws",
		Conditions: []string{"good", "excellent"},
		MinPrice:   100,
		MaxPrice:   500,
		Search:     "dewalt",
		Sort:       SortPriceLow,
		Limit:      20,
		Offset:     40,
	}

	// Одинаковый фильтр дает байтово идентичный запрос и аргументы
	query1, args1 := filter.BuildQuery()
	query2, args2 := filter.BuildQuery()

	if query1 != query2 {
		t.Error("повторный вызов BuildQuery дал другой запрос")
	}
	if !reflect.DeepEqual(args1, args2) {
		t.Error("повторный вызов BuildQuery дал другие аргументы")
	}
}

func TestBuildQueryConditions(t *testing.T) {
	filter := Filter{
		Category: "lathes",
		MinPrice: 50,
		Sort:     SortNewest,
		Limit:    20,
	}

	query, args := filter.BuildQuery()

	if !strings.Contains(query, "t.category = $1") {
		t.Errorf("запрос не содержит условие категории: %s", query)
	}
	if !strings.Contains(query, "t.current_price >= $2") {
		t.Errorf("запрос не содержит условие минимальной цены: %s", query)
	}
	if !strings.Contains(query, "ORDER BY t.created_at DESC") {
		t.Errorf("запрос не содержит сортировку по дате: %s", query)
	}

	// category, min_price, limit, offset
	if len(args) != 4 {
		t.Errorf("получено %d аргументов, ожидалось 4", len(args))
	}
}

func TestBuildQueryEmptyFilter(t *testing.T) {
	filter := Filter{Limit: 20}

	query, args := filter.BuildQuery()

	// Пустой фильтр ограничивается только активными непроданными объявлениями
	if !strings.Contains(query, "t.status = 'active' AND t.is_sold = false") {
		t.Errorf("запрос не содержит базовые условия: %s", query)
	}
	if strings.Contains(query, "t.category") {
		t.Errorf("пустой фильтр не должен фильтровать по категории: %s", query)
	}

	// Только limit и offset
	if len(args) != 2 {
		t.Errorf("получено %d аргументов, ожидалось 2", len(args))
	}
}

func TestBuildQuerySort(t *testing.T) {
	tests := []struct {
		sort string
		want string
	}{
		{SortPriceLow, "ORDER BY t.current_price ASC"},
		{SortPriceHigh, "ORDER BY t.current_price DESC"},
		{SortNewest, "ORDER BY t.created_at DESC"},
		{SortFeatured, "ORDER BY t.is_featured DESC, t.created_at DESC"},
		{"", "ORDER BY t.is_featured DESC, t.created_at DESC"},
	}

	for _, tt := range tests {
		filter := Filter{Sort: tt.sort, Limit: 20}
		query, _ := filter.BuildQuery()
		if !strings.Contains(query, tt.want) {
			t.Errorf("сортировка %q: запрос не содержит %q", tt.sort, tt.want)
		}
	}
}

func TestBuildCountQueryMatchesConditions(t *testing.T) {
	filter := Filter{
		Category: "sanders",
		Search:   "festool",
		Limit:    20,
		Offset:   20,
	}

	countQuery, countArgs := filter.BuildCountQuery()

	// Запрос подсчета не содержит пагинацию
	if strings.Contains(countQuery, "LIMIT") || strings.Contains(countQuery, "OFFSET") {
		t.Errorf("запрос подсчета содержит пагинацию: %s", countQuery)
	}

	// category и search
	if len(countArgs) != 2 {
		t.Errorf("получено %d аргументов, ожидалось 2", len(countArgs))
	}
}
