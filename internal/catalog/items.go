package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/erazemk/neuanfang/internal/model"
)

// ItemFilterKind is the variant tag of an ItemFilter.
type ItemFilterKind string

// Item filter variants.
const (
	ItemsAll      ItemFilterKind = "all"
	ItemsFragile  ItemFilterKind = "fragile"
	ItemsValuable ItemFilterKind = "valuable"
	ItemsCategory ItemFilterKind = "category"
)

// ItemFilter selects items. Category is only set for the ItemsCategory
// variant; use the constructors.
type ItemFilter struct {
	Kind     ItemFilterKind
	Category model.Category
}

// AllItems selects every item.
func AllItems() ItemFilter { return ItemFilter{Kind: ItemsAll} }

// FragileItems selects fragile items.
func FragileItems() ItemFilter { return ItemFilter{Kind: ItemsFragile} }

// ValuableItems selects items worth more than the high-value threshold.
func ValuableItems() ItemFilter { return ItemFilter{Kind: ItemsValuable} }

// InCategory selects items of one category.
func InCategory(c model.Category) ItemFilter {
	return ItemFilter{Kind: ItemsCategory, Category: c}
}

// Match reports whether the item passes the filter.
func (f ItemFilter) Match(it model.Item) bool {
	switch f.Kind {
	case ItemsFragile:
		return it.IsFragile
	case ItemsValuable:
		return it.IsHighValue()
	case ItemsCategory:
		return it.Category == f.Category
	default:
		return true
	}
}

// String returns the wire form of the filter ("category:books" for the
// category variant).
func (f ItemFilter) String() string {
	if f.Kind == ItemsCategory {
		return string(ItemsCategory) + ":" + string(f.Category)
	}
	if f.Kind == "" {
		return string(ItemsAll)
	}
	return string(f.Kind)
}

// ParseItemFilter parses the wire form of a filter.
func ParseItemFilter(s string) (ItemFilter, error) {
	kind, payload, hasPayload := strings.Cut(s, ":")
	switch ItemFilterKind(kind) {
	case "", ItemsAll:
		return AllItems(), nil
	case ItemsFragile:
		return FragileItems(), nil
	case ItemsValuable:
		return ValuableItems(), nil
	case ItemsCategory:
		c := model.Category(payload)
		if !hasPayload || !c.Valid() {
			return ItemFilter{}, fmt.Errorf("unknown category %q", payload)
		}
		return InCategory(c), nil
	default:
		return ItemFilter{}, fmt.Errorf("unknown item filter %q", s)
	}
}

// ItemSort orders items.
type ItemSort string

// Item sort keys.
const (
	SortItemsByName      ItemSort = "name"
	SortItemsByCreatedAt ItemSort = "created_at"
	SortItemsByValue     ItemSort = "value"
	SortItemsByCategory  ItemSort = "category"
	SortItemsByRisk      ItemSort = "risk_level"
)

// ParseItemSort parses a sort key. Empty input sorts by name.
func ParseItemSort(s string) (ItemSort, error) {
	switch k := ItemSort(s); k {
	case "":
		return SortItemsByName, nil
	case SortItemsByName, SortItemsByCreatedAt, SortItemsByValue, SortItemsByCategory, SortItemsByRisk:
		return k, nil
	default:
		return "", fmt.Errorf("unknown item sort %q", s)
	}
}

func (k ItemSort) compare(a, b model.Item) int {
	switch k {
	case SortItemsByCreatedAt:
		return b.CreatedAt.Compare(a.CreatedAt)
	case SortItemsByValue:
		return b.EstimatedValue.Cmp(a.EstimatedValue)
	case SortItemsByCategory:
		return cmp.Compare(fold(a.Category.Label()), fold(b.Category.Label()))
	case SortItemsByRisk:
		return cmp.Compare(b.RiskLevel(), a.RiskLevel())
	default:
		return cmp.Compare(fold(a.Name), fold(b.Name))
	}
}

// SortItems returns the items ordered by key. Creation time, value and risk
// sort descending; name and category ascending.
func SortItems(items []model.Item, key ItemSort) []model.Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, key.compare)
	return out
}

// ItemQuery is the user's current view over a box's items.
type ItemQuery struct {
	Search string
	Sort   ItemSort
	Filter ItemFilter
}

// Apply filters, searches and sorts items.
func (q ItemQuery) Apply(items []model.Item) []model.Item {
	m := newMatcher(q.Search)
	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if q.Filter.Match(it) && m.match(it.SearchText()) {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, q.Sort.compare)
	return out
}
