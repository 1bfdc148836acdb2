package models

import "testing"

func TestDiscountPercent(t *testing.T) {
	tests := []struct {
		name     string
		original float64
		current  float64
		want     int
	}{
		{"округление вверх", 175, 125, 29}, // 28.57 -> 29
		{"половина цены", 200, 100, 50},
		{"без исходной цены", 0, 100, 0},
		{"цена не снижена", 100, 100, 0},
		{"цена выше исходной", 100, 150, 0},
		{"округление вниз", 300, 250, 17}, // 16.66 -> 17
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountPercent(tt.original, tt.current)
			if got != tt.want {
				t.Errorf("DiscountPercent(%v, %v) = %d, ожидалось %d", tt.original, tt.current, got, tt.want)
			}
		})
	}
}

func TestMainImageURL(t *testing.T) {
	tool := Tool{
		Images: []ToolImage{
			{URL: "https://img.test/a.jpg", IsMain: false},
			{URL: "https://img.test/b.jpg", IsMain: true},
		},
	}

	if got := tool.MainImageURL(); got != "https://img.test/b.jpg" {
		t.Errorf("MainImageURL() = %q, ожидалось основное изображение", got)
	}

	// Без основного изображения возвращается первое
	tool.Images[1].IsMain = false
	if got := tool.MainImageURL(); got != "https://img.test/a.jpg" {
		t.Errorf("MainImageURL() = %q, ожидалось первое изображение", got)
	}

	// Без изображений возвращается пустая строка
	tool.Images = nil
	if got := tool.MainImageURL(); got != "" {
		t.Errorf("MainImageURL() = %q, ожидалась пустая строка", got)
	}
}
