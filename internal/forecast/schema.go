// Package forecast holds the calendar feature pipeline and the model
// contract used to project monthly emissions.
package forecast

import (
	"fmt"
	"math"
	"slices"
	"time"
)

// FeatureSchema names an ordered feature layout. A model artifact declares the
// schema it was trained against and inference refuses to run on a mismatch.
type FeatureSchema struct {
	Name    string
	Columns []string
}

// CalendarV1 is the month/year plus cyclic month encoding.
var CalendarV1 = FeatureSchema{
	Name:    "calendar-v1",
	Columns: []string{"month", "year", "month_sin", "month_cos"},
}

var schemas = map[string]FeatureSchema{
	CalendarV1.Name: CalendarV1,
}

// LookupSchema returns the registered schema with the given name.
func LookupSchema(name string) (FeatureSchema, bool) {
	s, ok := schemas[name]
	return s, ok
}

// Matches reports whether columns equal the schema columns in order.
func (s FeatureSchema) Matches(columns []string) bool {
	return slices.Equal(s.Columns, columns)
}

// FeatureRow is one future month and its feature vector in schema order.
type FeatureRow struct {
	Month  time.Time
	Values []float64
}

// FutureCalendarFeatures builds periods rows for the months following last,
// in CalendarV1 order.
func FutureCalendarFeatures(last time.Time, periods int) []FeatureRow {
	if periods <= 0 {
		return nil
	}

	rows := make([]FeatureRow, 0, periods)
	y, m := last.Year(), int(last.Month())
	for i := 1; i <= periods; i++ {
		month := (m+i-1)%12 + 1
		year := y + (m+i-1)/12
		angle := 2 * math.Pi * float64(month) / 12
		rows = append(rows, FeatureRow{
			Month:  time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
			Values: []float64{float64(month), float64(year), math.Sin(angle), math.Cos(angle)},
		})
	}
	return rows
}

// Matrix extracts the feature vectors of rows.
func Matrix(rows []FeatureRow) [][]float64 {
	x := make([][]float64, len(rows))
	for i, r := range rows {
		x[i] = r.Values
	}
	return x
}

func (s FeatureSchema) String() string {
	return fmt.Sprintf("%s%v", s.Name, s.Columns)
}
