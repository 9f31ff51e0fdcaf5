package holiday

import (
	"time"

	"github.com/rickar/cal/v2"
)

// NationalCalendar answers whether a date is a national public holiday.
type NationalCalendar interface {
	IsHoliday(date time.Time) bool
}

type businessCalendar struct {
	cal *cal.BusinessCalendar
}

// NewNationalCalendar builds a calendar from a fixed holiday set.
func NewNationalCalendar(holidays ...*cal.Holiday) NationalCalendar {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(holidays...)
	return &businessCalendar{cal: c}
}

// IsHoliday implements NationalCalendar.
func (b *businessCalendar) IsHoliday(date time.Time) bool {
	actual, _, _ := b.cal.IsHoliday(date)
	return actual
}

// Brazilian national public holidays (Lei 662/1949, 6.802/1980, 14.759/2023).
var (
	BRConfraternizacao = &cal.Holiday{Name: "Confraternização Universal", Type: cal.ObservancePublic, Month: time.January, Day: 1, Func: cal.CalcDayOfMonth}
	BRSextaSanta       = &cal.Holiday{Name: "Sexta-feira Santa", Type: cal.ObservancePublic, Offset: -2, Func: cal.CalcEasterOffset}
	BRTiradentes       = &cal.Holiday{Name: "Tiradentes", Type: cal.ObservancePublic, Month: time.April, Day: 21, Func: cal.CalcDayOfMonth}
	BRTrabalho         = &cal.Holiday{Name: "Dia do Trabalho", Type: cal.ObservancePublic, Month: time.May, Day: 1, Func: cal.CalcDayOfMonth}
	BRIndependencia    = &cal.Holiday{Name: "Independência do Brasil", Type: cal.ObservancePublic, Month: time.September, Day: 7, Func: cal.CalcDayOfMonth}
	BRAparecida        = &cal.Holiday{Name: "Nossa Senhora Aparecida", Type: cal.ObservancePublic, Month: time.October, Day: 12, Func: cal.CalcDayOfMonth}
	BRFinados          = &cal.Holiday{Name: "Finados", Type: cal.ObservancePublic, Month: time.November, Day: 2, Func: cal.CalcDayOfMonth}
	BRRepublica        = &cal.Holiday{Name: "Proclamação da República", Type: cal.ObservancePublic, Month: time.November, Day: 15, Func: cal.CalcDayOfMonth}
	BRConsciencia      = &cal.Holiday{Name: "Dia Nacional de Zumbi e da Consciência Negra", Type: cal.ObservancePublic, Month: time.November, Day: 20, Func: cal.CalcDayOfMonth, StartYear: 2024}
	BRNatal            = &cal.Holiday{Name: "Natal", Type: cal.ObservancePublic, Month: time.December, Day: 25, Func: cal.CalcDayOfMonth}

	BrazilHolidays = []*cal.Holiday{
		BRConfraternizacao,
		BRSextaSanta,
		BRTiradentes,
		BRTrabalho,
		BRIndependencia,
		BRAparecida,
		BRFinados,
		BRRepublica,
		BRConsciencia,
		BRNatal,
	}
)

// NewBrazilCalendar returns the national calendar for Brazil.
func NewBrazilCalendar() NationalCalendar {
	return NewNationalCalendar(BrazilHolidays...)
}
