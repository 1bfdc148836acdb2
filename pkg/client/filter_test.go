package client

import "testing"

// Одинаковое состояние фильтра всегда кодируется в одинаковую строку:
// внутрь не должны протекать скрытые счетчики или метки времени.
func TestFilterEncodeDeterministic(t *testing.T) {
	filter := Filter{
		Category:   "planers",
		Conditions: []string{"good", "excellent"},
		MinPrice:   99.5,
		MaxPrice:   1200,
		Search:     "dewalt 735",
		Sort:       "price_low",
		Limit:      40,
		Offset:     80,
	}

	encoded1 := filter.Encode()
	encoded2 := filter.Encode()

	if encoded1 != encoded2 {
		t.Errorf("повторное кодирование отличается:\n%s\n%s", encoded1, encoded2)
	}
}

func TestFilterEncodeOmitsZeroValues(t *testing.T) {
	filter := Filter{Category: "lathes"}
	values := filter.Values()

	if values.Get("category") != "lathes" {
		t.Errorf("category = %q", values.Get("category"))
	}

	for _, key := range []string{"conditions", "min_price", "max_price", "search", "sort", "limit", "offset"} {
		if values.Has(key) {
			t.Errorf("нулевое поле %q не должно кодироваться", key)
		}
	}
}

func TestFilterConditionsJoined(t *testing.T) {
	filter := Filter{Conditions: []string{"like_new", "excellent", "good"}}

	if got := filter.Values().Get("conditions"); got != "like_new,excellent,good" {
		t.Errorf("conditions = %q", got)
	}
}
