package date

import "testing"

func TestAppend(t *testing.T) {
	h := new(History[string])
	d1, v1 := New(2025, 07, 01), "25 Jul 1"
	d2, v2 := New(2024, 07, 01), "24 Jul 1"

	if h.Len() != 0 {
		t.Errorf("History.Len() = %v want 0", h.Len())
	}
	h.Append(d1, v1).Append(d2, v2)
	if h.Len() != 2 {
		t.Errorf("Append(d2, v2).Len() = %v want 2", h.Len())
	}
	if h.days[0] != d2 || h.days[1] != d1 {
		t.Errorf("history days = %v, want [%v %v]", h.days, d2, d1)
	}
	h.Append(d1, "replaced")
	if h.Len() != 2 || h.values[1] != "replaced" {
		t.Errorf("Append on existing day = %v, want replacement", h.values)
	}
	if day, v := h.Latest(); day != d1 || v != "replaced" {
		t.Errorf("Latest() = %v, %v want %v, replaced", day, v, d1)
	}
}

func TestValueAsOf(t *testing.T) {
	var h History[float64]
	h.Append(MustParse("2025-01-02"), 10).Append(MustParse("2025-01-06"), 12)

	tests := []struct {
		day    string
		want   float64
		wantOK bool
	}{
		{"2025-01-01", 0, false},
		{"2025-01-02", 10, true},
		{"2025-01-05", 10, true},
		{"2025-01-10", 12, true},
	}
	for _, tt := range tests {
		got, ok := h.ValueAsOf(MustParse(tt.day))
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ValueAsOf(%s) = %v, %v want %v, %v", tt.day, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAfter(t *testing.T) {
	var h History[float64]
	for i := 1; i <= 5; i++ {
		h.Append(New(2025, 1, i), float64(i))
	}
	if got := h.After(New(2025, 1, 3)); len(got) != 2 || got[0] != 4 {
		t.Errorf("After(3rd) = %v, want [4 5]", got)
	}
	if got := h.After(New(2024, 12, 31)); len(got) != 5 {
		t.Errorf("After(before all) = %v, want 5 values", got)
	}
	if got := h.After(New(2025, 2, 1)); len(got) != 0 {
		t.Errorf("After(after all) = %v, want none", got)
	}
}
