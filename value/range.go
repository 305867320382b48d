package value

import "fmt"

// Range is the runtime counterpart of `lo..hi` / `lo...hi`, produced by the
// newrange opcode.
type Range struct {
	Low, High Value
	Exclusive bool
}

var _ Value = (*Range)(nil)

func NewRange(low, high Value, exclusive bool) *Range {
	return &Range{Low: low, High: high, Exclusive: exclusive}
}

func (r *Range) String() string {
	op := ".."
	if r.Exclusive {
		op = "..."
	}
	return fmt.Sprintf("%s%s%s", r.Low, op, r.High)
}
func (r *Range) Type() string { return "Range" }

func (r *Range) Equals(y Value) (bool, error) {
	yr, ok := y.(*Range)
	if !ok {
		return false, nil
	}
	if r.Exclusive != yr.Exclusive {
		return false, nil
	}
	lo, err := Equal(r.Low, yr.Low)
	if err != nil || !lo {
		return lo, err
	}
	return Equal(r.High, yr.High)
}

var _ HasEqual = (*Range)(nil)
