package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/adviz/schema"
)

// DefaultComboLimit is how many entity combinations a chart can display at once.
const DefaultComboLimit = 5

// ExpandCombos returns the cartesian product of the child field values, each
// combination prefixed by the parent entities. Fields vary in declaration
// order with the last field varying fastest, so identical inputs always give
// identical output. Repeated values within a field are collapsed. No child
// fields yields the parent alone; a child field with no values yields nothing.
func ExpandCombos(parent schema.EntityList, children []schema.FieldValues) []schema.EntityList {
	fields := uniqueFields(children)
	if len(fields) == 0 {
		return []schema.EntityList{parent.Clone()}
	}
	total := ComboCount(fields)
	if total == 0 {
		return []schema.EntityList{}
	}

	combos := make([]schema.EntityList, 0, min(total, 1<<12))
	odometer := make([]int, len(fields))
	for {
		combo := make(schema.EntityList, 0, len(parent)+len(fields))
		combo = append(combo, parent...)
		for k, f := range fields {
			combo = append(combo, schema.Entity{Name: f.Name, Value: f.Values[odometer[k]]})
		}
		combos = append(combos, combo)

		k := len(fields) - 1
		for ; k >= 0; k-- {
			odometer[k]++
			if odometer[k] < len(fields[k].Values) {
				break
			}
			odometer[k] = 0
		}
		if k < 0 {
			return combos
		}
	}
}

// ComboCount returns how many combinations ExpandCombos would produce for the
// given child fields, saturating at math.MaxInt.
func ComboCount(children []schema.FieldValues) int {
	if len(children) == 0 {
		return 1
	}
	count := 1
	for _, f := range children {
		n := len(distinct(f.Values))
		if n == 0 {
			return 0
		}
		if count > math.MaxInt/n {
			count = math.MaxInt
			continue
		}
		count *= n
	}
	return count
}

// CheckComboLimit rejects a combination count above limit instead of
// truncating, since a partial set would misrepresent what is charted.
func CheckComboLimit(count, limit int) error {
	if limit <= 0 {
		return invalidf("combo limit must be positive, got %d", limit)
	}
	if count > limit {
		return fmt.Errorf("%w: %d combinations exceed the limit of %d", ErrTooManyCombos, count, limit)
	}
	return nil
}

func uniqueFields(children []schema.FieldValues) []schema.FieldValues {
	out := make([]schema.FieldValues, len(children))
	for i, f := range children {
		out[i] = schema.FieldValues{Name: f.Name, Values: distinct(f.Values)}
	}
	return out
}

// distinct keeps the first occurrence of every value.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
