package pattern

import (
	"fmt"
	"strings"
	"unicode"
)

type pieceKind int

const (
	pieceLayout pieceKind = iota
	pieceLiteral
	pieceHour24
	pieceFraction
)

// piece is one compiled element of a pattern. Layout pieces hold a Go
// reference-time fragment; the others are rendered by hand.
type piece struct {
	kind   pieceKind
	layout string
	text   string
	width  int
}

func (p piece) safeInRun() bool {
	return p.kind == pieceLayout
}

// tokenize splits a CLDR style pattern into letter runs, quoted literals and
// punctuation.
func tokenize(pattern string) ([]piece, error) {
	runes := []rune(pattern)
	var pieces []piece

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == '\'':
			if i+1 < len(runes) && runes[i+1] == '\'' {
				pieces = append(pieces, piece{kind: pieceLiteral, text: "'"})
				i += 2
				continue
			}
			text, next, err := readQuoted(runes, i+1)
			if err != nil {
				return nil, err
			}
			pieces = append(pieces, piece{kind: pieceLiteral, text: text})
			i = next
		case isPatternLetter(r):
			j := i
			for j < len(runes) && runes[j] == r {
				j++
			}
			pieces = append(pieces, letterPiece(r, j-i))
			i = j
		default:
			pieces = append(pieces, punctuation(r))
			i++
		}
	}
	return pieces, nil
}

func readQuoted(runes []rune, start int) (string, int, error) {
	var b strings.Builder
	for i := start; i < len(runes); i++ {
		if runes[i] != '\'' {
			b.WriteRune(runes[i])
			continue
		}
		if i+1 < len(runes) && runes[i+1] == '\'' {
			b.WriteRune('\'')
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, fmt.Errorf("unterminated quote at position %d", start-1)
}

func isPatternLetter(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

// punctuation keeps separators inside a layout run unless Go would read
// them as part of a reference-time token.
func punctuation(r rune) piece {
	if unicode.IsDigit(r) || r == '_' {
		return piece{kind: pieceLiteral, text: string(r)}
	}
	return piece{kind: pieceLayout, layout: string(r), text: string(r)}
}

func letterPiece(r rune, n int) piece {
	layout := func(l string) piece { return piece{kind: pieceLayout, layout: l} }

	switch r {
	case 'y', 'Y', 'u':
		if n == 2 {
			return layout("06")
		}
		return layout("2006")
	case 'M', 'L':
		switch n {
		case 1:
			return layout("1")
		case 2:
			return layout("01")
		case 3:
			return layout("Jan")
		default:
			return layout("January")
		}
	case 'd':
		if n == 1 {
			return layout("2")
		}
		return layout("02")
	case 'D':
		return layout("002")
	case 'E', 'e', 'c':
		if n >= 4 {
			return layout("Monday")
		}
		return layout("Mon")
	case 'H', 'k':
		if n == 1 {
			return piece{kind: pieceHour24, layout: "15"}
		}
		return layout("15")
	case 'h', 'K':
		if n == 1 {
			return layout("3")
		}
		return layout("03")
	case 'm':
		if n == 1 {
			return layout("4")
		}
		return layout("04")
	case 's':
		if n == 1 {
			return layout("5")
		}
		return layout("05")
	case 'S':
		return piece{kind: pieceFraction, width: n}
	case 'a':
		return layout("PM")
	case 'z':
		return layout("MST")
	case 'Z':
		if n >= 4 {
			return layout("-07:00")
		}
		return layout("-0700")
	case 'X', 'x':
		switch n {
		case 1:
			return layout("Z07")
		case 2:
			return layout("Z0700")
		default:
			return layout("Z07:00")
		}
	}
	return piece{kind: pieceLiteral, text: strings.Repeat(string(r), n)}
}
