package bigfloat

import "github.com/pkg/errors"

// Sentinel errors for conditions the core detects before it would even
// have a Status to report (malformed input, programmer error). Wrapped
// with github.com/pkg/errors so callers get a stack-annotated chain,
// the same convention the apd decimal package uses throughout its
// Context methods.
var (
	errInvalidFlagCombination = errors.New("bigfloat: SubnormalOK and RadixPointPrecision are mutually exclusive")
	errZeroPrecision          = errors.New("bigfloat: precision must be > 0 for this operation")
	errInvalidRadix           = errors.New("bigfloat: radix must be between 2 and 36")
	errSyntax                 = errors.New("bigfloat: invalid numeric syntax")
	errNegativeSqrt           = errors.New("bigfloat: square root of negative number")
)

// GoError converts flags raised in s into an error if any of them are
// members of traps, mirroring apd.Context.goError/Context.Traps. It
// returns only an error and leaves s unchanged; GoError only decides
// whether that error is non-nil.
func (s Status) GoError(traps Status) error {
	if s&traps == 0 {
		return nil
	}
	return errors.Errorf("bigfloat: operation raised %s", s&traps)
}

// DefaultTraps mirrors apd.DefaultTraps: the conditions that are
// reported as errors unless a Context opts out.
const DefaultTraps = InvalidOp | DivideByZero | MemError
