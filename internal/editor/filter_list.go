package editor

import (
	"slices"
	"strings"

	"github.com/unclebandit/workflow-summary/internal/model"
)

// FilterList is an ordered list of filter rules. Ids are assigned on Add
// and never reused within one list.
type FilterList struct {
	filters []model.Filter
	nextID  int
}

// NewFilterList seeds the list with existing filters, keeping their ids.
func NewFilterList(seed ...model.Filter) *FilterList {
	l := &FilterList{nextID: 1}
	for _, f := range seed {
		l.filters = append(l.filters, f)
		if f.ID >= l.nextID {
			l.nextID = f.ID + 1
		}
	}
	return l
}

// Add appends a filter and returns it. Blank column or value is rejected
// silently and reported with ok=false. An empty operator means equals.
func (l *FilterList) Add(column string, op model.Operator, value string) (model.Filter, bool) {
	if strings.TrimSpace(column) == "" || strings.TrimSpace(value) == "" {
		return model.Filter{}, false
	}
	if op == "" {
		op = model.OperatorEquals
	}

	f := model.Filter{
		ID:       l.nextID,
		Column:   column,
		Operator: op,
		Value:    value,
	}
	l.nextID++
	l.filters = append(l.filters, f)
	return f, true
}

// Remove deletes the filter with the given id, if any. Survivors keep
// their order.
func (l *FilterList) Remove(id int) bool {
	i := slices.IndexFunc(l.filters, func(f model.Filter) bool { return f.ID == id })
	if i < 0 {
		return false
	}
	l.filters = slices.Delete(l.filters, i, i+1)
	return true
}

func (l *FilterList) Len() int { return len(l.filters) }

// Filters returns a copy of the current list.
func (l *FilterList) Filters() []model.Filter {
	return slices.Clone(l.filters)
}
