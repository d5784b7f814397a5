package entity

// FeatureColumns is the column order of a training frame row.
var FeatureColumns = []string{"open", "high", "low", "close", "volume", "gap"}

// TrainingFrame is a feature table with one row per ticker and a binary label per row.
type TrainingFrame struct {
	Columns  []string
	Tickers  []string
	Features [][]float64
	Labels   []int
}

// Len returns the number of samples.
func (f *TrainingFrame) Len() int {
	return len(f.Labels)
}
