// Package pattern compiles CLDR style date patterns such as
// "EEEE d MMMM yyyy HH:mm:ss" and renders them with localized month and day
// names.
package pattern

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/goodsign/monday"
)

// ErrEmptyPattern is returned when compiling an empty pattern.
var ErrEmptyPattern = errors.New("empty date pattern")

// Plan is a compiled pattern. It is immutable and safe for concurrent use.
type Plan struct {
	source string
	pieces []piece
}

// Compile turns pattern into a Plan. Patterns that already look like Go
// reference layouts ("2006-01-02 15:04:05") are used verbatim.
func Compile(pattern string) (*Plan, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}
	if isGoLayout(pattern) {
		return &Plan{
			source: pattern,
			pieces: []piece{{kind: pieceLayout, layout: pattern}},
		}, nil
	}

	pieces, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}
	return &Plan{source: pattern, pieces: pieces}, nil
}

// MustCompile is Compile that panics on error. Use for package level plans.
func MustCompile(pattern string) *Plan {
	p, err := Compile(pattern)
	if err != nil {
		panic("pattern: " + err.Error())
	}
	return p
}

func isGoLayout(pattern string) bool {
	return strings.Contains(pattern, "2006") || strings.Contains(pattern, "15:04")
}

// Pattern returns the source the plan was compiled from.
func (p *Plan) Pattern() string {
	return p.source
}

// Render formats t with the plan. Adjacent layout pieces are formatted in one
// call so locales with context dependent month forms see the whole run.
func (p *Plan) Render(t time.Time, locale monday.Locale) string {
	var out, run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		out.WriteString(monday.Format(t, run.String(), locale))
		run.Reset()
	}

	for _, pc := range p.pieces {
		switch pc.kind {
		case pieceLayout:
			run.WriteString(pc.layout)
		case pieceLiteral:
			flush()
			out.WriteString(pc.text)
		case pieceHour24:
			flush()
			out.WriteString(strconv.Itoa(t.Hour()))
		case pieceFraction:
			flush()
			out.WriteString(fraction(t, pc.width))
		}
	}
	flush()
	return out.String()
}

// Layout returns a Go layout usable for parsing values rendered by the plan.
// Fractional second pieces are dropped since Go accepts a fraction after the
// seconds field without one in the layout.
func (p *Plan) Layout() string {
	var b strings.Builder
	for i, pc := range p.pieces {
		switch pc.kind {
		case pieceLayout, pieceHour24:
			if isFractionSeparator(p.pieces, i) {
				continue
			}
			b.WriteString(pc.layout)
		case pieceLiteral:
			b.WriteString(pc.text)
		}
	}
	return b.String()
}

// Parse reads value in loc using the plan and locale specific names.
func (p *Plan) Parse(value string, loc *time.Location, locale monday.Locale) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	return monday.ParseInLocation(p.Layout(), value, loc, locale)
}

func isFractionSeparator(pieces []piece, i int) bool {
	if pieces[i].layout != "." && pieces[i].layout != "," {
		return false
	}
	return i+1 < len(pieces) && pieces[i+1].kind == pieceFraction
}

func fraction(t time.Time, width int) string {
	digits := strconv.Itoa(t.Nanosecond() + 1e9)[1:]
	if width <= len(digits) {
		return digits[:width]
	}
	return digits + strings.Repeat("0", width-len(digits))
}
