package fees

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestCalculate_NoDueDate(t *testing.T) {
	assert.Equal(t, 0, Calculate(nil, date(2025, time.January, 10), 100))
	assert.Equal(t, 0, Calculate(nil, nil, 100))
}

func TestCalculate_ReturnedOnOrBeforeDueDate(t *testing.T) {
	due := date(2025, time.January, 10)

	assert.Equal(t, 0, Calculate(due, due, 100))
	assert.Equal(t, 0, Calculate(due, date(2025, time.January, 5), 100))
	assert.Equal(t, 0, Calculate(due, date(2024, time.December, 31), 100))
}

func TestCalculate_StartedWeeksRoundUp(t *testing.T) {
	due := date(2025, time.January, 1)

	tests := []struct {
		name       string
		returnDate *time.Time
		want       int
	}{
		{"one day late is one week", date(2025, time.January, 2), 100},
		{"seven days late is still one week", date(2025, time.January, 8), 100},
		{"eight days late rolls into week two", date(2025, time.January, 9), 200},
		{"nine days late", date(2025, time.January, 10), 200},
		{"fourteen days late", date(2025, time.January, 15), 200},
		{"fifteen days late is week three", date(2025, time.January, 16), 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(due, tt.returnDate, 100))
		})
	}
}

func TestCalculate_WeeklyRateScales(t *testing.T) {
	due := date(2025, time.January, 1)
	ret := date(2025, time.January, 10) // 9 days, 2 weeks

	assert.Equal(t, 2*250, Calculate(due, ret, 250))
	assert.Equal(t, 0, Calculate(due, ret, 0))
}

func TestCalculateAt_OpenBorrowingMeasuredAgainstToday(t *testing.T) {
	due := date(2025, time.June, 1)

	// Still out, not yet due
	assert.Equal(t, 0, CalculateAt(due, nil, 100, time.Date(2025, time.May, 20, 9, 0, 0, 0, time.UTC)))

	// Still out, three days past due
	assert.Equal(t, 100, CalculateAt(due, nil, 100, time.Date(2025, time.June, 4, 9, 0, 0, 0, time.UTC)))

	// Still out, ten days past due
	assert.Equal(t, 200, CalculateAt(due, nil, 100, time.Date(2025, time.June, 11, 23, 0, 0, 0, time.UTC)))
}

func TestCalculateAt_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2025, time.January, 1, 23, 30, 0, 0, time.UTC)
	ret := time.Date(2025, time.January, 2, 0, 10, 0, 0, time.UTC)

	// Late by one calendar day even though under an hour elapsed
	assert.Equal(t, 100, Calculate(&due, &ret, 100))
}
