package address

// Order is the result of comparing two addresses in document order.
type Order int

const (
	Before Order = -1
	Equal  Order = 0
	After  Order = 1
)

// String returns the string representation of the Order.
func (o Order) String() string {
	switch o {
	case Before:
		return "before"
	case Equal:
		return "equal"
	case After:
		return "after"
	default:
		return "unknown"
	}
}

// ComparePaths orders two node paths in document (pre-order) order.
// An ancestor sorts before its descendants.
func ComparePaths(a, b Path) Order {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] < b[i] {
			return Before
		}
		if a[i] > b[i] {
			return After
		}
	}
	switch {
	case len(a) < len(b):
		return Before
	case len(a) > len(b):
		return After
	default:
		return Equal
	}
}

// ComparePositions orders two positions as boundary points without
// resolving them. When one path is a proper prefix of the other, the
// shorter position addresses an element and its offset is a child
// boundary: it comes before the longer position if it is at or before the
// child the longer path descends into.
func ComparePositions(a, b Position) Order {
	switch {
	case len(a.Path) < len(b.Path) && b.Path.HasPrefix(a.Path):
		if a.Offset <= b.Path[len(a.Path)] {
			return Before
		}
		return After
	case len(b.Path) < len(a.Path) && a.Path.HasPrefix(b.Path):
		if b.Offset <= a.Path[len(b.Path)] {
			return After
		}
		return Before
	}

	if o := ComparePaths(a.Path, b.Path); o != Equal {
		return o
	}
	switch {
	case a.Offset < b.Offset:
		return Before
	case a.Offset > b.Offset:
		return After
	default:
		return Equal
	}
}
