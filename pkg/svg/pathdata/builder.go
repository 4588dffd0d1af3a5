package pathdata

// Builder assembles a Path command by command.
type Builder struct {
	path Path
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Cmd appends an arbitrary command.
func (b *Builder) Cmd(op byte, values ...float64) *Builder {
	cmd := Command{Op: op}
	for _, v := range values {
		cmd.Args = append(cmd.Args, Num(v))
	}
	b.path = append(b.path, cmd)
	return b
}

func (b *Builder) MoveTo(x, y float64) *Builder { return b.Cmd('M', x, y) }
func (b *Builder) MoveBy(dx, dy float64) *Builder { return b.Cmd('m', dx, dy) }
func (b *Builder) LineTo(x, y float64) *Builder { return b.Cmd('L', x, y) }
func (b *Builder) LineBy(dx, dy float64) *Builder { return b.Cmd('l', dx, dy) }
func (b *Builder) HorizontalBy(dx float64) *Builder { return b.Cmd('h', dx) }
func (b *Builder) VerticalBy(dy float64) *Builder { return b.Cmd('v', dy) }

// CurveBy appends a relative cubic Bézier.
func (b *Builder) CurveBy(x1, y1, x2, y2, x, y float64) *Builder {
	return b.Cmd('c', x1, y1, x2, y2, x, y)
}

// ArcTo appends an absolute elliptical arc.
func (b *Builder) ArcTo(rx, ry, rotation float64, largeArc, sweep bool, x, y float64) *Builder {
	return b.Cmd('A', rx, ry, rotation, flag(largeArc), flag(sweep), x, y)
}

// Close appends a relative closepath.
func (b *Builder) Close() *Builder {
	b.path = append(b.path, Command{Op: 'z'})
	return b
}

// CloseAbs appends an upper case closepath.
func (b *Builder) CloseAbs() *Builder {
	b.path = append(b.path, Command{Op: 'Z'})
	return b
}

// Path returns the assembled path.
func (b *Builder) Path() Path {
	return b.path.Clone()
}

func flag(v bool) float64 {
	if v {
		return 1
	}
	return 0
}
