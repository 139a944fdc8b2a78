package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// ReferenceDistribution places a score within a reference population.
type ReferenceDistribution interface {
	// Percentile returns the percent of the population scoring at or
	// below score for the named series ("overall" or a phase name). The
	// second result is false when the series is unknown.
	Percentile(series string, score float64) (float64, bool)
}

// StaticDistribution holds reference score populations in memory.
type StaticDistribution struct {
	series map[string][]float64 // sorted ascending
}

// NewStaticDistribution builds a distribution from raw population scores.
func NewStaticDistribution(series map[string][]float64) *StaticDistribution {
	d := &StaticDistribution{series: make(map[string][]float64, len(series))}
	for name, scores := range series {
		sorted := make([]float64, len(scores))
		copy(sorted, scores)
		sort.Float64s(sorted)
		d.series[name] = sorted
	}
	return d
}

// LoadCSV reads a reference population from a CSV file. The header row
// names the series and each column holds that series' population scores.
// Blank cells are skipped, so columns may have different lengths.
func LoadCSV(path string) (*StaticDistribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse reference data %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("reference data %s has no score rows", path)
	}

	header := rows[0]
	series := make(map[string][]float64, len(header))
	for _, row := range rows[1:] {
		for i, cell := range row {
			if i >= len(header) || cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("reference data %s: bad value %q in column %s: %w", path, cell, header[i], err)
			}
			series[header[i]] = append(series[header[i]], v)
		}
	}

	return NewStaticDistribution(series), nil
}

// Percentile implements ReferenceDistribution with a weak ordering: the
// percent of population values less than or equal to score.
func (d *StaticDistribution) Percentile(series string, score float64) (float64, bool) {
	scores, ok := d.series[series]
	if !ok || len(scores) == 0 {
		return 0, false
	}
	n := sort.SearchFloat64s(scores, score)
	for n < len(scores) && scores[n] == score {
		n++
	}
	return float64(n) / float64(len(scores)) * 100, true
}
