package tui

import (
	"github.com/aretw0/weft/pkg/segment"
	"github.com/muesli/termenv"
)

var kindColors = map[segment.Kind]string{
	segment.KindString: "#22c55e",
	segment.KindNumber: "#3b82f6",
	segment.KindObject: "#a855f7",
	segment.KindArray:  "#f59e0b",
	segment.KindFile:   "#ec4899",
	segment.KindGroup:  "#64748b",
	segment.KindNone:   "#9ca3af",
}

// Kind renders a segment kind as a colored tag, e.g. "[string]". Colors are dropped when the
// output is not a terminal.
func Kind(kind segment.Kind) string {
	p := termenv.ColorProfile()
	tag := termenv.String("[" + string(kind) + "]")
	if color, ok := kindColors[kind]; ok {
		tag = tag.Foreground(p.Color(color))
	}
	return tag.String()
}
