package billfetch

import "iter"

// Enumerate returns a lazy, finite, restartable sequence of every candidate
// BillID for the given congress: the cross-product of the requested types,
// numbers in [start, end], and every version in the closed set.
//
// Ordering is load-bearing: type in the order given, then number ascending,
// then version in canonical order. Progress is reported and resumed in this
// same order. If types is empty, all bill types are enumerated in canonical
// order.
func Enumerate(congress string, types []BillType, start, end int) iter.Seq[BillID] {
	if len(types) == 0 {
		types = AllBillTypes()
	}

	return func(yield func(BillID) bool) {
		for _, t := range types {
			for number := start; number <= end; number++ {
				for _, v := range AllBillVersions() {
					id := BillID{
						Congress: congress,
						Type:     t,
						Number:   number,
						Version:  v,
					}
					if !yield(id) {
						return
					}
				}
			}
		}
	}
}
