package lunar

import "testing"

func TestToSolarKnownDates(t *testing.T) {
	c := NewConverter()
	cases := []struct {
		lunarY, lunarM, lunarD int
		leap                   bool
		wantY, wantM, wantD    int
	}{
		// Lunar new year 2024.
		{2024, 1, 1, false, 2024, 2, 10},
		// Chuseok 2023.
		{2023, 8, 15, false, 2023, 9, 29},
		// First day of the 2023 leap second month.
		{2023, 2, 1, true, 2023, 3, 22},
	}
	for _, tc := range cases {
		y, m, d, err := c.ToSolar(tc.lunarY, tc.lunarM, tc.lunarD, tc.leap)
		if err != nil {
			t.Fatalf("ToSolar(%d-%d-%d leap=%v) failed: %v", tc.lunarY, tc.lunarM, tc.lunarD, tc.leap, err)
		}
		if y != tc.wantY || m != tc.wantM || d != tc.wantD {
			t.Fatalf("ToSolar(%d-%d-%d leap=%v) = %d-%d-%d, want %d-%d-%d",
				tc.lunarY, tc.lunarM, tc.lunarD, tc.leap, y, m, d, tc.wantY, tc.wantM, tc.wantD)
		}
	}
}

func TestToSolarInvalidDate(t *testing.T) {
	c := NewConverter()
	if _, _, _, err := c.ToSolar(2024, 1, 31, false); err == nil {
		t.Fatalf("day 31 should not exist in a lunar month")
	}
	if _, _, _, err := c.ToSolar(2024, 1, 1, true); err == nil {
		t.Fatalf("2024 has no leap first month")
	}
}
