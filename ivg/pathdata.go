package ivg

import (
	"fmt"
	"strconv"
)

// segment is one path command with its arguments in absolute coordinates.
type segment struct {
	op   byte
	args []float32
}

var arity = map[byte]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'Q': 4, 'S': 4,
	'C': 6,
	'A': 7,
	'Z': 0,
}

// parsePath splits SVG path data into segments and resolves relative
// commands against the current point. H and V keep their single argument.
func parsePath(d string) ([]segment, error) {
	var (
		segs       []segment
		sc         = scanner{s: d}
		cx, cy     float32
		sx, sy     float32
		op         byte
		relative   bool
		haveOpcode bool
	)

	for {
		sc.skipSeparators()

		if sc.done() {
			return segs, nil
		}

		if c := sc.peek(); isCommand(c) {
			sc.pos++
			op, relative = upper(c), c >= 'a'
			haveOpcode = true

			if op == 'Z' {
				segs = append(segs, segment{op: 'Z'})
				cx, cy = sx, sy

				continue
			}
		} else if !haveOpcode {
			return nil, fmt.Errorf("path data must start with a command, got %q", c)
		} else if op == 'Z' {
			return nil, fmt.Errorf("unexpected number after close path at %d", sc.pos)
		}

		args, err := sc.args(op)
		if err != nil {
			return nil, err
		}

		if relative {
			resolve(op, args, cx, cy)
		}

		segs = append(segs, segment{op: op, args: args})

		switch op {
		case 'H':
			cx = args[0]
		case 'V':
			cy = args[0]
		default:
			cx, cy = args[len(args)-2], args[len(args)-1]
		}

		if op == 'M' {
			sx, sy = cx, cy
			// Coordinates following a move are implicit line commands.
			op = 'L'
		}
	}
}

func resolve(op byte, args []float32, cx, cy float32) {
	switch op {
	case 'H':
		args[0] += cx
	case 'V':
		args[0] += cy
	case 'A':
		args[5] += cx
		args[6] += cy
	default:
		for i := 0; i+1 < len(args); i += 2 {
			args[i] += cx
			args[i+1] += cy
		}
	}
}

func isCommand(c byte) bool {
	_, ok := arity[upper(c)]
	return ok
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}

	return c
}

type scanner struct {
	s   string
	pos int
}

func (sc *scanner) done() bool { return sc.pos >= len(sc.s) }
func (sc *scanner) peek() byte { return sc.s[sc.pos] }

func (sc *scanner) skipSeparators() {
	for !sc.done() {
		switch sc.peek() {
		case ' ', '\t', '\r', '\n', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *scanner) args(op byte) ([]float32, error) {
	args := make([]float32, arity[op])

	for i := range args {
		sc.skipSeparators()

		var (
			v   float32
			err error
		)

		// Arc flags may be written without separators, as in "a1 1 0 00 1 1".
		if op == 'A' && (i == 3 || i == 4) {
			v, err = sc.flag()
		} else {
			v, err = sc.number()
		}

		if err != nil {
			return nil, fmt.Errorf("command %c argument %d: %w", op, i, err)
		}

		args[i] = v
	}

	return args, nil
}

func (sc *scanner) flag() (float32, error) {
	if sc.done() {
		return 0, fmt.Errorf("missing flag")
	}

	switch c := sc.peek(); c {
	case '0', '1':
		sc.pos++
		return float32(c - '0'), nil
	default:
		return 0, fmt.Errorf("invalid flag %q", c)
	}
}

func (sc *scanner) number() (float32, error) {
	start := sc.pos

	if !sc.done() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.pos++
	}

	digits := sc.digits()

	if !sc.done() && sc.peek() == '.' {
		sc.pos++
		digits += sc.digits()
	}

	if digits == 0 {
		sc.pos = start
		return 0, fmt.Errorf("expected number at %d", start)
	}

	if !sc.done() && (sc.peek() == 'e' || sc.peek() == 'E') {
		mark := sc.pos
		sc.pos++

		if !sc.done() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.pos++
		}

		if sc.digits() == 0 {
			sc.pos = mark
		}
	}

	f, err := strconv.ParseFloat(sc.s[start:sc.pos], 32)
	if err != nil {
		return 0, fmt.Errorf("could not parse %q as a float32: %w", sc.s[start:sc.pos], err)
	}

	return float32(f), nil
}

func (sc *scanner) digits() int {
	n := 0

	for !sc.done() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.pos++
		n++
	}

	return n
}
