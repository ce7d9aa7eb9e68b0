package lunar

import (
	"fmt"

	"github.com/6tail/lunar-go/calendar"
)

// Converter turns a lunar calendar date into its solar equivalent. The
// engine depends on it only for this one direction.
type Converter interface {
	ToSolar(year, month, day int, leapMonth bool) (int, int, int, error)
}

type converter struct{}

// NewConverter returns the lunar-go backed converter.
func NewConverter() Converter {
	return &converter{}
}

func (c *converter) ToSolar(year, month, day int, leapMonth bool) (y, m, d int, err error) {
	// lunar-go signals invalid lunar dates by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid lunar date %d-%d-%d (leap=%v): %v", year, month, day, leapMonth, r)
		}
	}()

	// Leap months are encoded as negative month numbers.
	lunarMonth := month
	if leapMonth {
		lunarMonth = -month
	}
	l := calendar.NewLunarFromYmd(year, lunarMonth, day)
	s := l.GetSolar()
	return s.GetYear(), s.GetMonth(), s.GetDay(), nil
}
