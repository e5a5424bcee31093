package contacts

import "sort"

// phoneIndex is the reverse index from canonical phone number to the set of
// working-map keys currently holding it. It is a derived structure owned by
// one merge invocation and is mutated only through the operations below so
// it cannot drift from the working map.
type phoneIndex struct {
	holders map[string]map[string]struct{}
}

func newPhoneIndex() *phoneIndex {
	return &phoneIndex{holders: make(map[string]map[string]struct{})}
}

// add registers key as a holder of number.
func (ix *phoneIndex) add(number, key string) {
	if number == "" {
		return
	}
	set, ok := ix.holders[number]
	if !ok {
		set = make(map[string]struct{})
		ix.holders[number] = set
	}
	set[key] = struct{}{}
}

// remove drops key from number's holder set.
func (ix *phoneIndex) remove(number, key string) {
	if set, ok := ix.holders[number]; ok {
		delete(set, key)
		if len(set) == 0 {
			delete(ix.holders, number)
		}
	}
}

// move re-points number from one holder key to another.
func (ix *phoneIndex) move(number, from, to string) {
	ix.add(number, to)
	ix.remove(number, from)
}

// has reports whether any record holds the number.
func (ix *phoneIndex) has(number string) bool {
	return len(ix.holders[number]) > 0
}

// holdersOf returns the keys holding number in lexicographic order. The
// explicit ordering makes holder selection deterministic.
func (ix *phoneIndex) holdersOf(number string) []string {
	set, ok := ix.holders[number]
	if !ok {
		return nil
	}
	return sortedKeys(set)
}

// firstHolder returns the lexicographically first holder of number.
func (ix *phoneIndex) firstHolder(number string) (string, bool) {
	keys := ix.holdersOf(number)
	if len(keys) == 0 {
		return "", false
	}
	return keys[0], true
}

// numbers returns every indexed number in lexicographic order.
func (ix *phoneIndex) numbers() []string {
	out := make([]string, 0, len(ix.holders))
	for number := range ix.holders {
		out = append(out, number)
	}
	sort.Strings(out)
	return out
}
