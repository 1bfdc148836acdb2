package tool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/benchlot/benchlot-api/internal/utils"
)

// Ключи сортировки каталога
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price_low"
	SortPriceHigh = "price_high"
	SortNewest    = "newest"
)

// Filter представляет набор фильтров каталога. Каждое поле опционально:
// нулевое значение означает отсутствие ограничения.
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

// ParseFilter собирает фильтр из query-параметров запроса
func ParseFilter(c fiber.Ctx) Filter {
	f := Filter{
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.Query("sort", SortFeatured),
		Limit:    utils.ClampLimit(c.Query("limit")),
	}

	if conditions := c.Query("conditions"); conditions != "" {
		for _, cond := range strings.Split(conditions, ",") {
			cond = strings.TrimSpace(cond)
			if cond != "" {
				f.Conditions = append(f.Conditions, cond)
			}
		}
	}

	f.MinPrice, _ = strconv.ParseFloat(c.Query("min_price"), 64)
	f.MaxPrice, _ = strconv.ParseFloat(c.Query("max_price"), 64)
	f.Offset, _ = strconv.Atoi(c.Query("offset", "0"))

	switch f.Sort {
	case SortFeatured, SortPriceLow, SortPriceHigh, SortNewest:
	default:
		f.Sort = SortFeatured
	}

	return f
}

// BuildQuery строит SQL-запрос и аргументы по фильтру. Построение
// детерминировано: одинаковый фильтр всегда дает одинаковый запрос.
func (f Filter) BuildQuery() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(`
		SELECT t.id, t.seller_id, t.name, t.description, t.category, t.condition,
		       t.current_price, t.original_price, t.allow_offers, t.is_verified,
		       t.is_featured, t.is_sold, t.status, t.created_at, t.updated_at
		FROM tools t
		WHERE t.status = 'active' AND t.is_sold = false`)

	if f.Category != "" {
		args = append(args, f.Category)
		fmt.Fprintf(&sb, " AND t.category = $%d", len(args))
	}

	if len(f.Conditions) > 0 {
		args = append(args, f.Conditions)
		fmt.Fprintf(&sb, " AND t.condition = ANY($%d)", len(args))
	}

	if f.MinPrice > 0 {
		args = append(args, f.MinPrice)
		fmt.Fprintf(&sb, " AND t.current_price >= $%d", len(args))
	}

	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		fmt.Fprintf(&sb, " AND t.current_price <= $%d", len(args))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&sb, " AND (t.name ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args))
	}

	switch f.Sort {
	case SortPriceLow:
		sb.WriteString(" ORDER BY t.current_price ASC")
	case SortPriceHigh:
		sb.WriteString(" ORDER BY t.current_price DESC")
	case SortNewest:
		sb.WriteString(" ORDER BY t.created_at DESC")
	default:
		// featured: сначала рекомендованные, затем новые
		sb.WriteString(" ORDER BY t.is_featured DESC, t.created_at DESC")
	}

	args = append(args, f.Limit)
	fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	args = append(args, f.Offset)
	fmt.Fprintf(&sb, " OFFSET $%d", len(args))

	return sb.String(), args
}

// BuildCountQuery строит запрос подсчета общего количества по тем же условиям
func (f Filter) BuildCountQuery() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	sb.WriteString(`SELECT COUNT(*) FROM tools t WHERE t.status = 'active' AND t.is_sold = false`)

	if f.Category != "" {
		args = append(args, f.Category)
		fmt.Fprintf(&sb, " AND t.category = $%d", len(args))
	}

	if len(f.Conditions) > 0 {
		args = append(args, f.Conditions)
		fmt.Fprintf(&sb, " AND t.condition = ANY($%d)", len(args))
	}

	if f.MinPrice > 0 {
		args = append(args, f.MinPrice)
		fmt.Fprintf(&sb, " AND t.current_price >= $%d", len(args))
	}

	if f.MaxPrice > 0 {
		args = append(args, f.MaxPrice)
		fmt.Fprintf(&sb, " AND t.current_price <= $%d", len(args))
	}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		fmt.Fprintf(&sb, " AND (t.name ILIKE $%d OR t.description ILIKE $%d)", len(args), len(args))
	}

	return sb.String(), args
}
