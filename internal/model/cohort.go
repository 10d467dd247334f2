package model

// Attr is one fixed parameter of a cohort.
type Attr struct {
	Name  string
	Value string
}

// CohortRow is one scored experiment inside a cohort. An experiment with
// several rows of the target score contributes one row per score.
type CohortRow struct {
	ExperimentID   int64
	ExperimentName string
	VaryingValue   string
	ScoreID        int64
	Score          float64
}

// Cohort groups experiments that share every fixed parameter value and
// differ only by the varying parameter.
type Cohort struct {
	Varying string
	Score   string
	Fixed   []Attr // ordered by parameter name
	Rows    []CohortRow
}

// Point is one labelled value of a plot series.
type Point struct {
	Label string
	Value float64
}

// Series is an ordered set of points ready to be plotted.
type Series struct {
	XLabel string // varying parameter
	YLabel string // score name
	Points []Point
}

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Label
	}
	return out
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}
