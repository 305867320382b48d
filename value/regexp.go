package value

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// RegexpOpt is a single bit of regexp compilation options, mirroring the
// reference `toregexp` opcode's opts operand (case-insensitive, extended,
// multiline).
type RegexpOpt uint8

const (
	RegexpIgnoreCase RegexpOpt = 1 << 0
	RegexpExtended   RegexpOpt = 1 << 1
	RegexpMultiline  RegexpOpt = 1 << 2
)

// Regexp is backed by github.com/dlclark/regexp2 rather than the standard
// library's regexp package: Ruby regex literals support backreferences and
// lookaround assertions that RE2 (and so stdlib regexp) cannot express, and
// regexp2 is the ecosystem library the retrieval pack already carries for
// exactly that gap (see ProbeChain-go-probe's go.mod).
type Regexp struct {
	Source string
	Opts   RegexpOpt
	re     *regexp2.Regexp
}

var _ Value = (*Regexp)(nil)

// NewRegexp compiles source with the given option bits.
func NewRegexp(source string, opts RegexpOpt) (*Regexp, error) {
	var ropts regexp2.RegexOptions
	if opts&RegexpIgnoreCase != 0 {
		ropts |= regexp2.IgnoreCase
	}
	if opts&RegexpExtended != 0 {
		ropts |= regexp2.IgnorePatternWhitespace
	}
	if opts&RegexpMultiline != 0 {
		ropts |= regexp2.Multiline
	}
	re, err := regexp2.Compile(source, ropts)
	if err != nil {
		return nil, fmt.Errorf("invalid regexp %q: %w", source, err)
	}
	return &Regexp{Source: source, Opts: opts, re: re}, nil
}

func (r *Regexp) String() string { return "/" + r.Source + "/" }
func (r *Regexp) Type() string   { return "Regexp" }

// Match reports whether s matches the regexp anywhere, used by
// opt_regexpmatch2 and by checkmatch's case-equality role.
func (r *Regexp) Match(s string) (bool, error) {
	m, err := r.re.MatchString(s)
	if err != nil {
		return false, err
	}
	return m, nil
}
