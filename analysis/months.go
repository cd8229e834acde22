package analysis

import (
	"fmt"
	"sort"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// MonthRow is one gap-filled row of a monthly series.
type MonthRow struct {
	Month  string
	Values *CountMap
}

// ExpandMonths turns a sparse month -> counts mapping (keys "YYYY-MM") into a
// contiguous series: every calendar month between the smallest and largest
// observed key, inclusive, with an empty row where the input had no entry.
// Empty input yields an empty series.
func ExpandMonths(sparse *orderedmap.OrderedMap[string, *CountMap]) ([]MonthRow, error) {
	if sparse == nil || sparse.Len() == 0 {
		return nil, nil
	}

	keys := make([]string, 0, sparse.Len())
	for p := sparse.Oldest(); p != nil; p = p.Next() {
		keys = append(keys, p.Key)
	}
	sort.Strings(keys)

	months, err := MonthRange(keys[0], keys[len(keys)-1])
	if err != nil {
		return nil, err
	}

	rows := make([]MonthRow, 0, len(months))
	for _, month := range months {
		values, ok := sparse.Get(month)
		if !ok {
			values = orderedmap.New[string, int]()
		}
		rows = append(rows, MonthRow{Month: month, Values: values})
	}
	return rows, nil
}

// MonthRange enumerates every month from from to to inclusive, both in the
// form "YYYY-MM", advancing one calendar month at a time.
func MonthRange(from, to string) ([]string, error) {
	start, err := time.Parse("2006-01", from)
	if err != nil {
		return nil, fmt.Errorf("MonthRange: bad month %q: %w", from, err)
	}
	end, err := time.Parse("2006-01", to)
	if err != nil {
		return nil, fmt.Errorf("MonthRange: bad month %q: %w", to, err)
	}

	var months []string
	for m := start; !m.After(end); m = m.AddDate(0, 1, 0) {
		months = append(months, m.Format("2006-01"))
	}
	return months, nil
}
