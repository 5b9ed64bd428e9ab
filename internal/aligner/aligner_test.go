package aligner

import (
	"math"
	"math/rand"
	"testing"

	"github.com/iwvelando/peso-dashboard/pkg/constants"
	"github.com/iwvelando/peso-dashboard/pkg/datetime"
	"github.com/iwvelando/peso-dashboard/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func row(date string, value float64) series.PriceObservation {
	return series.PriceObservation{
		Date:     datetime.MustParseDate(date),
		Value:    value,
		Category: constants.CategoryPrice,
	}
}

func valueAt(t *testing.T, rows []series.PriceObservation, date string) float64 {
	t.Helper()
	d := datetime.MustParseDate(date)
	for _, r := range rows {
		if r.Date == d {
			return r.Value
		}
	}
	t.Fatalf("no row for %s", date)
	return 0
}

func TestCarryForwardWeekendUsesFriday(t *testing.T) {
	rows := []series.PriceObservation{
		row("2023-01-06", 4800.0), // Friday
		row("2023-01-07", nan),    // Saturday
		row("2023-01-08", nan),    // Sunday
		row("2023-01-09", 4810.0), // Monday
	}

	got := CarryForwardWeekends(rows)

	assert.Equal(t, 4800.0, valueAt(t, got, "2023-01-07"))
	assert.Equal(t, 4800.0, valueAt(t, got, "2023-01-08"))
	assert.Equal(t, 4810.0, valueAt(t, got, "2023-01-09"))

	// input untouched
	assert.True(t, math.IsNaN(rows[1].Value))
	assert.True(t, math.IsNaN(rows[2].Value))
}

func TestCarryForwardSundayDoesNotChainThroughSaturday(t *testing.T) {
	rows := []series.PriceObservation{
		row("2023-01-05", 4790.0), // Thursday
		row("2023-01-06", nan),    // Friday, absent
		row("2023-01-07", 4805.0), // Saturday, present
		row("2023-01-08", nan),    // Sunday
	}

	got := CarryForwardWeekends(rows)

	// Sunday looks two days back at Friday, which is absent.
	assert.True(t, math.IsNaN(valueAt(t, got, "2023-01-08")))
	// Weekday gaps are not filled.
	assert.True(t, math.IsNaN(valueAt(t, got, "2023-01-06")))
}

func TestCarryForwardSundayIgnoresFilledSaturday(t *testing.T) {
	// Saturday gets Friday's value; Sunday must read Friday directly, which is
	// missing from the table, instead of the filled Saturday.
	rows := []series.PriceObservation{
		row("2023-01-07", nan),
		row("2023-01-08", nan),
	}
	got := CarryForwardWeekends(rows)
	assert.True(t, math.IsNaN(valueAt(t, got, "2023-01-07")))
	assert.True(t, math.IsNaN(valueAt(t, got, "2023-01-08")))
}

func TestCarryForwardMissingTargetStaysAbsent(t *testing.T) {
	rows := []series.PriceObservation{
		row("2023-01-08", nan), // Sunday, no Friday row at all
	}
	require.NotPanics(t, func() {
		got := CarryForwardWeekends(rows)
		assert.True(t, math.IsNaN(got[0].Value))
	})
}

func TestCarryForwardHolidayMondayStaysAbsent(t *testing.T) {
	rows := []series.PriceObservation{
		row("2023-01-06", 4800.0),
		row("2023-01-07", nan),
		row("2023-01-08", nan),
		row("2023-01-09", nan), // Monday holiday
	}
	got := CarryForwardWeekends(rows)
	assert.True(t, math.IsNaN(valueAt(t, got, "2023-01-09")))
}

func TestCarryForwardKeepsPresentWeekendValues(t *testing.T) {
	rows := []series.PriceObservation{
		row("2023-01-06", 4800.0),
		row("2023-01-07", 4799.0),
	}
	got := CarryForwardWeekends(rows)
	assert.Equal(t, 4799.0, valueAt(t, got, "2023-01-07"))
}

// TestCarryForwardProperties checks the carry-forward rules over a generated
// calendar with random gaps.
func TestCarryForwardProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	start := datetime.MustParseDate("2019-01-01")

	var rows []series.PriceObservation
	original := make(map[datetime.Date]float64)
	for i := 0; i < 1500; i++ {
		if rng.Intn(10) == 0 {
			continue // no row at all
		}
		d := start.AddDays(i)
		v := 3000 + rng.Float64()*2000
		if rng.Intn(3) == 0 {
			v = nan
		}
		original[d] = v
		rows = append(rows, series.PriceObservation{Date: d, Value: v, Category: constants.CategoryPrice})
	}

	got := CarryForwardWeekends(rows)
	require.Len(t, got, len(rows))

	same := func(a, b float64) bool {
		return (math.IsNaN(a) && math.IsNaN(b)) || a == b
	}

	for i, r := range got {
		before := rows[i].Value
		require.Equal(t, rows[i].Date, r.Date)

		switch {
		case !math.IsNaN(before):
			assert.Equal(t, before, r.Value, "present value changed on %s", r.Date)
		case datetime.WeekdayIndex(r.Date) == datetime.Saturday:
			want, ok := original[r.Date.AddDays(-1)]
			if !ok {
				want = nan
			}
			assert.True(t, same(want, r.Value), "saturday %s: want %v got %v", r.Date, want, r.Value)
		case datetime.WeekdayIndex(r.Date) == datetime.Sunday:
			want, ok := original[r.Date.AddDays(-2)]
			if !ok {
				want = nan
			}
			assert.True(t, same(want, r.Value), "sunday %s: want %v got %v", r.Date, want, r.Value)
		default:
			assert.True(t, math.IsNaN(r.Value), "weekday gap filled on %s", r.Date)
		}
	}
}

func TestFormatEventLabel(t *testing.T) {
	tests := []struct {
		name        string
		description string
		date        string
		expected    string
	}{
		{name: "Event", description: "Devaluación", date: "2020-03-15", expected: "Devaluación - March 15, 2020"},
		{name: "Single digit day", description: "Paro nacional", date: "2021-05-01", expected: "Paro nacional - May 1, 2021"},
		{name: "No event", description: "", date: "2020-03-15", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatEventLabel(tt.description, datetime.MustParseDate(tt.date)))
		})
	}
}

func TestAlignFormatsLabelsAndCategories(t *testing.T) {
	rows := []series.PriceObservation{
		{Date: datetime.MustParseDate("2020-03-16"), Value: 4100, Category: constants.CategoryPrice},
		{Date: datetime.MustParseDate("2020-03-15"), Value: nan, Description: "Devaluación", Category: constants.CategoryEvent},
		{Date: datetime.MustParseDate("2020-03-13"), Value: 4000, Category: constants.CategoryPrice},
	}

	got := Align(rows)
	require.Len(t, got, 3)

	assert.Equal(t, "2020-03-13", got[0].Date.String())
	assert.Equal(t, "2020-03-15", got[1].Date.String())
	assert.Equal(t, "2020-03-16", got[2].Date.String())

	// 2020-03-15 is a Sunday: carried from Friday 13th.
	assert.Equal(t, 4000.0, got[1].Value)
	assert.Equal(t, "Devaluación - March 15, 2020", got[1].EventLabel)
	assert.Equal(t, constants.CategoryEvent, got[1].Category)

	for _, r := range got {
		assert.Equal(t, r.EventLabel != "", r.Category == constants.CategoryEvent, "category mismatch on %s", r.Date)
	}

	// input untouched
	assert.Equal(t, "Devaluación", rows[1].Description)
	assert.Equal(t, "", rows[1].EventLabel)
}

func TestAlignIsIdempotent(t *testing.T) {
	rows := []series.PriceObservation{
		{Date: datetime.MustParseDate("2020-03-13"), Value: 4000, Category: constants.CategoryPrice},
		{Date: datetime.MustParseDate("2020-03-14"), Value: nan, Category: constants.CategoryPrice},
		{Date: datetime.MustParseDate("2020-03-15"), Value: nan, Description: "Devaluación", Category: constants.CategoryEvent},
		{Date: datetime.MustParseDate("2020-03-17"), Value: nan, Description: "Cuarentena", Category: constants.CategoryEvent},
	}

	same := func(a, b float64) bool {
		return (math.IsNaN(a) && math.IsNaN(b)) || a == b
	}

	once := Align(rows)
	twice := Align(once)

	require.Len(t, twice, len(once))
	for i := range once {
		assert.Equal(t, once[i].Date, twice[i].Date)
		assert.True(t, same(once[i].Value, twice[i].Value), "value changed on %s", once[i].Date)
		assert.Equal(t, once[i].EventLabel, twice[i].EventLabel)
		assert.Equal(t, once[i].Category, twice[i].Category)
	}
	assert.Equal(t, "Devaluación - March 15, 2020", twice[2].EventLabel)
}
