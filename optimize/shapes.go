package optimize

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var numberList = regexp.MustCompile(`[-+]?(?:\d*\.\d+|\d+\.?)(?:[eE][-+]?\d+)?`)

// ConvertShapeToPath replaces rect, line, polyline and polygon elements with
// equivalent paths. With ConvertArcs, circles and ellipses become paths of two
// arcs as well. Rounded rects and shapes with non-numeric geometry are kept.
type ConvertShapeToPath struct {
	ConvertArcs bool
}

func (ConvertShapeToPath) Name() string { return "convertShapeToPath" }

func (c ConvertShapeToPath) Apply(doc *Document) error {
	filter(doc.Root, func(n Node) bool {
		el, ok := n.(*Element)
		if !ok {
			return true
		}

		switch el.Name {
		case "rect":
			convertRect(el)
		case "line":
			convertLine(el)
		case "polyline", "polygon":
			return convertPoly(el)
		case "circle":
			if c.ConvertArcs {
				convertCircle(el)
			}
		case "ellipse":
			if c.ConvertArcs {
				convertEllipse(el)
			}
		}

		return true
	})

	return nil
}

func convertRect(el *Element) {
	if nonZero(el, "rx") || nonZero(el, "ry") {
		return
	}

	x, ok1 := num(el, "x", 0)
	y, ok2 := num(el, "y", 0)
	w, ok3 := num(el, "width", -1)
	h, ok4 := num(el, "height", -1)

	if !(ok1 && ok2 && ok3 && ok4) || w < 0 || h < 0 {
		return
	}

	toPath(el, "M"+pair(x, y)+"H"+fmtNum(x+w)+"V"+fmtNum(y+h)+"H"+fmtNum(x)+"z",
		"x", "y", "width", "height", "rx", "ry")
}

func convertLine(el *Element) {
	x1, ok1 := num(el, "x1", 0)
	y1, ok2 := num(el, "y1", 0)
	x2, ok3 := num(el, "x2", 0)
	y2, ok4 := num(el, "y2", 0)

	if !(ok1 && ok2 && ok3 && ok4) {
		return
	}

	toPath(el, "M"+pair(x1, y1)+"L"+pair(x2, y2), "x1", "y1", "x2", "y2")
}

// convertPoly reports false when the element has fewer than two points and
// should be removed.
func convertPoly(el *Element) bool {
	points, _ := el.Attr("points")
	coords := numberList.FindAllString(points, -1)

	if len(coords) < 4 {
		return false
	}

	var d strings.Builder

	for i := 0; i+1 < len(coords); i += 2 {
		x, err1 := strconv.ParseFloat(coords[i], 64)
		y, err2 := strconv.ParseFloat(coords[i+1], 64)

		if err1 != nil || err2 != nil {
			return true
		}

		if i == 0 {
			d.WriteString("M")
		} else {
			d.WriteString("L")
		}

		d.WriteString(pair(x, y))
	}

	if el.Name == "polygon" {
		d.WriteString("z")
	}

	toPath(el, d.String(), "points")

	return true
}

func convertCircle(el *Element) {
	cx, ok1 := num(el, "cx", 0)
	cy, ok2 := num(el, "cy", 0)
	r, ok3 := num(el, "r", -1)

	if !(ok1 && ok2 && ok3) || r < 0 {
		return
	}

	toPath(el, arcs(cx, cy, r, r), "cx", "cy", "r")
}

func convertEllipse(el *Element) {
	cx, ok1 := num(el, "cx", 0)
	cy, ok2 := num(el, "cy", 0)
	rx, ok3 := num(el, "rx", -1)
	ry, ok4 := num(el, "ry", -1)

	if !(ok1 && ok2 && ok3 && ok4) || rx < 0 || ry < 0 {
		return
	}

	toPath(el, arcs(cx, cy, rx, ry), "cx", "cy", "rx", "ry")
}

// arcs draws an ellipse as two half arcs starting from the top.
func arcs(cx, cy, rx, ry float64) string {
	radii := pair(rx, ry) + " 0 1 0 "

	return "M" + pair(cx, cy-ry) +
		"A" + radii + pair(cx, cy+ry) +
		"A" + radii + pair(cx, cy-ry) + "z"
}

func toPath(el *Element, d string, geometry ...string) {
	el.Name = "path"
	el.RemoveAttr(func(a Attr) bool { return slices.Contains(geometry, a.Name) })
	el.SetAttr("d", d)
}

// num parses a plain numeric attribute. A missing attribute yields def; a
// present one with units or garbage yields ok == false.
func num(el *Element, name string, def float64) (float64, bool) {
	v, ok := el.Attr(name)
	if !ok {
		return def, def >= 0
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, false
	}

	return f, true
}

func nonZero(el *Element, name string) bool {
	v, ok := el.Attr(name)
	if !ok {
		return false
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

	return err != nil || f != 0
}

func pair(x, y float64) string {
	return fmtNum(x) + " " + fmtNum(y)
}

func fmtNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
