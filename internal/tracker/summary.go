package tracker

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/outfit/internal/model"
)

// attrsPerLine is how many fixed attributes a title line holds.
const attrsPerLine = 3

// SummaryOptions tunes Summarize.
type SummaryOptions struct {
	// NumericSort orders points by the varying value as a number when every
	// value of the cohort parses as one. Otherwise labels sort as text.
	NumericSort bool
}

// Summary is a cohort reduced to a plot-ready series.
type Summary struct {
	Title  string
	Series model.Series
}

// Summarize averages the score per varying value and orders the result.
// Cohorts with fewer than two rows have nothing to compare and return false.
func Summarize(c model.Cohort, opts SummaryOptions) (Summary, bool) {
	if len(c.Rows) < 2 {
		return Summary{}, false
	}

	type bucket struct {
		value string
		sum   float64
		n     int
	}
	buckets := make(map[string]*bucket)
	for _, r := range c.Rows {
		label := c.Varying + "_" + r.VaryingValue
		bk, ok := buckets[label]
		if !ok {
			bk = &bucket{value: r.VaryingValue}
			buckets[label] = bk
		}
		bk.sum += r.Score
		bk.n++
	}

	labels := make([]string, 0, len(buckets))
	for l := range buckets {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	if opts.NumericSort {
		nums := make(map[string]float64, len(labels))
		numeric := true
		for _, l := range labels {
			f, err := strconv.ParseFloat(buckets[l].value, 64)
			if err != nil {
				numeric = false
				break
			}
			nums[l] = f
		}
		if numeric {
			sort.SliceStable(labels, func(i, j int) bool { return nums[labels[i]] < nums[labels[j]] })
		}
	}

	s := Summary{
		Title:  Title(c.Fixed),
		Series: model.Series{XLabel: c.Varying, YLabel: c.Score},
	}
	for _, l := range labels {
		bk := buckets[l]
		s.Series.Points = append(s.Series.Points, model.Point{Label: l, Value: bk.sum / float64(bk.n)})
	}
	return s, true
}

// Title lists the fixed attributes as name=value, breaking the line after
// every third attribute.
func Title(fixed []model.Attr) string {
	var b strings.Builder
	for i, a := range fixed {
		if i > 0 {
			if i%attrsPerLine == 0 {
				b.WriteString("\n")
			} else {
				b.WriteString(", ")
			}
		}
		fmt.Fprintf(&b, "%s=%s", a.Name, a.Value)
	}
	return b.String()
}
