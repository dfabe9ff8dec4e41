// Package ivg renders normalized icons as IconVG graphics.
//
// Only path elements are encoded. Every path is filled with the first
// custom palette color; the view box of the icon is kept as is.
package ivg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/WinPooh32/svgicon/normalize"
	"golang.org/x/exp/shiny/iconvg"
	"golang.org/x/image/math/f32"
)

// Ext is the file extension of encoded icons.
const Ext = "ivg"

// Encode returns the IconVG bytes for icon. An icon without a view box uses
// 0 0 width height.
func Encode(icon normalize.Icon) ([]byte, error) {
	vb, err := viewBox(icon)
	if err != nil {
		return nil, err
	}

	var enc iconvg.Encoder

	enc.Reset(iconvg.Metadata{
		ViewBox: vb,
		Palette: iconvg.DefaultPalette,
	})

	for i, d := range icon.Paths {
		if err := genPath(&enc, d); err != nil {
			return nil, fmt.Errorf("path %d: %w", i, err)
		}
	}

	data, err := enc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	return data, nil
}

func viewBox(icon normalize.Icon) (iconvg.Rectangle, error) {
	fields := strings.Fields(icon.ViewBox)
	if len(fields) == 0 {
		return iconvg.Rectangle{
			Min: f32.Vec2{0, 0},
			Max: f32.Vec2{float32(icon.Width), float32(icon.Height)},
		}, nil
	}

	if len(fields) != 4 {
		return iconvg.Rectangle{}, fmt.Errorf("view box %q: want 4 numbers", icon.ViewBox)
	}

	var v [4]float32

	for i, s := range fields {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return iconvg.Rectangle{}, fmt.Errorf("view box %q: %w", icon.ViewBox, err)
		}

		v[i] = float32(f)
	}

	return iconvg.Rectangle{
		Min: f32.Vec2{v[0], v[1]},
		Max: f32.Vec2{v[0] + v[2], v[1] + v[3]},
	}, nil
}

func genPath(enc *iconvg.Encoder, d string) error {
	segs, err := parsePath(d)
	if err != nil {
		return err
	}

	var (
		started bool
		closed  bool
		sx, sy  float32
	)

	for _, s := range segs {
		a := s.args

		if s.op == 'Z' {
			closed = true
			continue
		}

		if s.op == 'M' {
			if !started {
				started = true
				enc.StartPath(0, a[0], a[1])
			} else {
				enc.ClosePathAbsMoveTo(a[0], a[1])
			}

			sx, sy, closed = a[0], a[1], false

			continue
		}

		if !started {
			return fmt.Errorf("command %c before move", s.op)
		}

		if closed {
			// Drawing after a close continues from the subpath start.
			enc.ClosePathAbsMoveTo(sx, sy)
			closed = false
		}

		switch s.op {
		case 'L':
			enc.AbsLineTo(a[0], a[1])
		case 'H':
			enc.AbsHLineTo(a[0])
		case 'V':
			enc.AbsVLineTo(a[0])
		case 'T':
			enc.AbsSmoothQuadTo(a[0], a[1])
		case 'Q':
			enc.AbsQuadTo(a[0], a[1], a[2], a[3])
		case 'S':
			enc.AbsSmoothCubeTo(a[0], a[1], a[2], a[3])
		case 'C':
			enc.AbsCubeTo(a[0], a[1], a[2], a[3], a[4], a[5])
		case 'A':
			// IconVG measures the x axis rotation in full turns.
			enc.AbsArcTo(a[0], a[1], a[2]/360, a[3] != 0, a[4] != 0, a[5], a[6])
		}
	}

	if started {
		enc.ClosePathEndPath()
	}

	return nil
}
