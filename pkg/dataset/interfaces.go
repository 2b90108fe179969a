package dataset

import (
	"time"
)

// Row is one observation handed to the trainers: a trading date, the feature
// vector for one instrument, the binary upper-circuit label, and the realized
// forward return used for risk scoring of predicted positives.
type Row struct {
	Date          time.Time
	Features      map[string]float64
	Label         int
	ForwardReturn float64
}

// Provider is the data-access collaborator. Implementations must return rows
// in chronological order and must be idempotent: walk-forward re-reads
// overlapping ranges window after window.
type Provider interface {
	// LoadTrainingData loads rows with Date in [start, end)
	LoadTrainingData(start, end time.Time, features []string) ([]Row, error)

	// LoadTestData loads rows with Date in [start, end)
	LoadTestData(start, end time.Time, features []string) ([]Row, error)

	// GetName returns the name of the data provider
	GetName() string
}

// RowCache caches loaded rows keyed by source
type RowCache interface {
	Get(key string) ([]Row, bool)
	Set(key string, rows []Row)
	Clear()
	Size() int
}

// ColumnMapping defines the fixed column positions of a feature CSV. Feature
// columns are resolved by header name, so only the bookkeeping columns are
// positional.
type ColumnMapping struct {
	DateCol          int
	LabelCol         int
	ForwardReturnCol int
	MinColumns       int
	DateFormat       string
}

// DefaultCSVFormat matches the export produced by the upstream collection
// scripts: date,label,forward_return,<feature...>
var DefaultCSVFormat = ColumnMapping{
	DateCol:          0,
	LabelCol:         1,
	ForwardReturnCol: 2,
	MinColumns:       3,
	DateFormat:       "2006-01-02",
}
