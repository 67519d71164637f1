package diffeq

import "fmt"

// Rational is an exact nonnegative rational, used for the
// discontinuity order of delay problems. Fractional orders arise from
// neutral problems, so a float comparison is not good enough to decide
// whether two discontinuity points coincide.
type Rational struct {
	Num int
	Den int
}

func NewRational(num, den int) (Rational, error) {
	if den <= 0 || num < 0 {
		return Rational{}, fmt.Errorf("diffeq: invalid rational %d/%d", num, den)
	}
	return Rational{Num: num, Den: den}, nil
}

// Whole returns n as a Rational.
func Whole(n int) Rational { return Rational{Num: n, Den: 1} }

func (r Rational) Float() float64 { return float64(r.Num) / float64(r.Den) }

// Less reports r < other without going through floats.
func (r Rational) Less(other Rational) bool {
	return r.Num*other.Den < other.Num*r.Den
}

// AtLeast reports r >= n.
func (r Rational) AtLeast(n int) bool {
	return r.Num >= n*r.Den
}

func (r Rational) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}
