// Package pathdata models SVG path data as typed commands so geometry can be
// mutated field by field and re-serialized instead of patched as text.
package pathdata

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrSubstitution is returned when a placeholder or numeric token does not
// occur exactly once.
var ErrSubstitution = errors.New("path substitution failed")

// SubstitutionError reports how often the requested token was found.
type SubstitutionError struct {
	Token string
	Count int
}

func (e *SubstitutionError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("token %q not found in path data", e.Token)
	}
	return fmt.Sprintf("token %q found %d times in path data, expected exactly once", e.Token, e.Count)
}

func (e *SubstitutionError) Is(target error) bool { return target == ErrSubstitution }

// Arg is one command argument: a number, or a placeholder awaiting
// substitution. Raw keeps the number as written so untouched arguments
// serialize unchanged.
type Arg struct {
	Value       float64
	Raw         string
	Placeholder string
}

// Num builds a numeric argument.
func Num(v float64) Arg { return Arg{Value: v} }

// IsPlaceholder reports whether the argument still needs a value.
func (a Arg) IsPlaceholder() bool { return a.Placeholder != "" }

func (a Arg) String() string {
	if a.Placeholder != "" {
		return a.Placeholder
	}
	if a.Raw != "" {
		return a.Raw
	}
	return FormatFloat(a.Value)
}

// Command is a single path command with its arguments. Op keeps the letter
// case, lower case meaning relative coordinates.
type Command struct {
	Op   byte
	Args []Arg
}

// Relative reports whether the command uses relative coordinates.
func (c Command) Relative() bool { return c.Op >= 'a' && c.Op <= 'z' }

// Path is an ordered list of commands.
type Path []Command

// arity is the number of arguments consumed by one repetition of a command.
var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'S': 4, 'Q': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

// Parse reads path data into commands.
func Parse(d string) (Path, error) {
	ast, err := pathParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("parse path data: %w", err)
	}

	path := make(Path, 0, len(ast.Segments))
	for _, seg := range ast.Segments {
		cmd := Command{Op: seg.Command[0]}
		for _, a := range seg.Args {
			switch {
			case a.Placeholder != nil:
				cmd.Args = append(cmd.Args, Arg{Placeholder: *a.Placeholder})
			case a.Number != nil:
				v, err := strconv.ParseFloat(*a.Number, 64)
				if err != nil {
					return nil, fmt.Errorf("parse path number %q: %w", *a.Number, err)
				}
				cmd.Args = append(cmd.Args, Arg{Value: v, Raw: *a.Number})
			}
		}
		if upper(cmd.Op) == 'A' {
			args, err := splitArcFlags(cmd.Args)
			if err != nil {
				return nil, err
			}
			cmd.Args = args
		}
		path = append(path, cmd)
	}

	if err := path.Validate(); err != nil {
		return nil, err
	}
	return path, nil
}

// splitArcFlags separates arc flags written without separators ("011 1"
// is large-arc 0, sweep 1, x 1). A flag is always a single 0 or 1, so a
// longer number in a flag position donates its first digit and the rest
// becomes the next argument.
func splitArcFlags(args []Arg) ([]Arg, error) {
	out := make([]Arg, 0, len(args))
	pending := append([]Arg(nil), args...)
	for len(pending) > 0 {
		a := pending[0]
		pending = pending[1:]

		pos := len(out) % 7
		if (pos != 3 && pos != 4) || a.IsPlaceholder() || len(a.Raw) < 2 {
			out = append(out, a)
			continue
		}
		if a.Raw[0] != '0' && a.Raw[0] != '1' {
			return nil, fmt.Errorf("arc flag %q must be 0 or 1", a.Raw)
		}
		rest := a.Raw[1:]
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, fmt.Errorf("parse path number %q after arc flag: %w", rest, err)
		}
		out = append(out, Arg{Value: float64(a.Raw[0] - '0'), Raw: a.Raw[:1]})
		pending = append([]Arg{{Value: v, Raw: rest}}, pending...)
	}
	return out, nil
}

// MustParse is Parse for static path data; it panics on error.
func MustParse(d string) Path {
	p, err := Parse(d)
	if err != nil {
		panic(err)
	}
	return p
}

// Validate checks argument counts against each command's arity.
func (p Path) Validate() error {
	for i, cmd := range p {
		n, ok := arity[upper(cmd.Op)]
		if !ok {
			return fmt.Errorf("command %d: unknown path command %q", i, cmd.Op)
		}
		if n == 0 {
			if len(cmd.Args) != 0 {
				return fmt.Errorf("command %d (%c): takes no arguments, got %d", i, cmd.Op, len(cmd.Args))
			}
			continue
		}
		if len(cmd.Args) == 0 || len(cmd.Args)%n != 0 {
			return fmt.Errorf("command %d (%c): expected a multiple of %d arguments, got %d", i, cmd.Op, n, len(cmd.Args))
		}
	}
	return nil
}

// Clone returns a deep copy.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	for i, cmd := range p {
		out[i] = Command{Op: cmd.Op, Args: append([]Arg(nil), cmd.Args...)}
	}
	return out
}

// Placeholders lists unresolved placeholder names in order of appearance.
func (p Path) Placeholders() []string {
	var names []string
	for _, cmd := range p {
		for _, a := range cmd.Args {
			if a.IsPlaceholder() {
				names = append(names, a.Placeholder)
			}
		}
	}
	return names
}

// Substitute replaces the named placeholder with v. The placeholder must
// occur exactly once.
func (p Path) Substitute(placeholder string, v float64) (Path, error) {
	return p.replaceOnce(placeholder, func(a Arg) bool { return a.Placeholder == placeholder }, v)
}

// SubstituteNumber replaces the single numeric argument equal to old with v.
func (p Path) SubstituteNumber(old, v float64) (Path, error) {
	return p.replaceOnce(FormatFloat(old), func(a Arg) bool { return !a.IsPlaceholder() && a.Value == old }, v)
}

func (p Path) replaceOnce(token string, match func(Arg) bool, v float64) (Path, error) {
	out := p.Clone()
	count := 0
	var ci, ai int
	for i, cmd := range out {
		for j, a := range cmd.Args {
			if match(a) {
				count++
				ci, ai = i, j
			}
		}
	}
	if count != 1 {
		return nil, &SubstitutionError{Token: token, Count: count}
	}
	out[ci].Args[ai] = Num(v)
	return out, nil
}

// String serializes the path. Coordinate pairs are joined with commas and
// commands separated by spaces, e.g. "m 1,2 h 3 z".
func (p Path) String() string {
	var b strings.Builder
	for i, cmd := range p {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte(cmd.Op)
		groups := groupArgs(cmd)
		for _, g := range groups {
			b.WriteByte(' ')
			b.WriteString(g)
		}
	}
	return b.String()
}

func groupArgs(cmd Command) []string {
	var out []string
	switch upper(cmd.Op) {
	case 'H', 'V':
		for _, a := range cmd.Args {
			out = append(out, a.String())
		}
	case 'A':
		for i := 0; i+6 < len(cmd.Args); i += 7 {
			a := cmd.Args[i : i+7]
			out = append(out,
				a[0].String()+","+a[1].String(),
				a[2].String(), a[3].String(), a[4].String(),
				a[5].String()+","+a[6].String())
		}
	default:
		for i := 0; i+1 < len(cmd.Args); i += 2 {
			out = append(out, cmd.Args[i].String()+","+cmd.Args[i+1].String())
		}
	}
	return out
}

// FormatFloat renders v with the shortest representation that round-trips,
// without exponent and without a negative zero.
func FormatFloat(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func upper(op byte) byte {
	if op >= 'a' && op <= 'z' {
		return op - 'a' + 'A'
	}
	return op
}
