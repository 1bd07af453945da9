package loader

import "time"

// Record is one depth-level observation from a measurement file. Numeric fields
// that were absent in the source are NaN; a missing timestamp is the zero time.
type Record struct {
	Platform            string
	Cycle               int
	Latitude            float64
	Longitude           float64
	Pressure            float64
	Temperature         float64
	Salinity            float64
	PressureAdjusted    float64
	TemperatureAdjusted float64
	SalinityAdjusted    float64
	Time                time.Time
	Year                int
	SourceFile          string
}
