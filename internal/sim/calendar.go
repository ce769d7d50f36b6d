// Package sim implements the turn/economy core of the household simulation:
// the calendar, the fixed-cost ledger, the household budget, the four runtime
// state holders, and the monthly action-resolution pipeline that ties them
// together.
package sim

const monthsInYear = 12

// Calendar tracks the in-game year and month. Month is always in [1, 12].
type Calendar struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewCalendar creates a calendar at the given starting year and month.
func NewCalendar(year, month int) *Calendar {
	return &Calendar{Year: year, Month: month}
}

// AdvanceMonth moves the calendar forward one month, wrapping into the next
// year after December.
func (c *Calendar) AdvanceMonth() {
	c.Month++
	if c.Month > monthsInYear {
		c.Month = 1
		c.Year++
	}
}

// AddMonths moves the calendar by n months in either direction. The
// recomputation is absolute, so AddMonths(a) followed by AddMonths(b) lands
// on the same date as AddMonths(a+b). Negative totals need floor division;
// Go's integer division truncates toward zero, so the remainder is adjusted
// by hand.
func (c *Calendar) AddMonths(n int) {
	total := c.Year*monthsInYear + (c.Month - 1) + n
	year := total / monthsInYear
	rem := total % monthsInYear
	if rem < 0 {
		rem += monthsInYear
		year--
	}
	c.Year = year
	c.Month = rem + 1
}
