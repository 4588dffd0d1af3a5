package pathdata

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// pathLexer tokenizes SVG path data. Placeholders are identifiers containing
// an underscore (FILL_HERE) so they never collide with compact command
// sequences such as "zm".
var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Placeholder", Pattern: `[A-Za-z][A-Za-z0-9]*_[A-Za-z0-9_]*`},
	{Name: "Command", Pattern: `[MmLlHhVvCcSsQqTtAaZz]`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Sep", Pattern: `[\s,]+`},
})

type pathAST struct {
	Segments []*segmentAST `parser:"@@*"`
}

type segmentAST struct {
	Command string    `parser:"@Command"`
	Args    []*argAST `parser:"@@*"`
}

type argAST struct {
	Number      *string `parser:"  @Number"`
	Placeholder *string `parser:"| @Placeholder"`
}

var pathParser = participle.MustBuild[pathAST](
	participle.Lexer(pathLexer),
	participle.Elide("Sep"),
)
