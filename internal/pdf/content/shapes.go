package content

import (
	"bytes"
	"io"
	"math"
	"strconv"
)

// Shape is a painted rectangle in default user space (bottom-left origin)
type Shape struct {
	X0, Y0, X1, Y1 float64
	Fill           bool
}

// Matrix is a PDF transformation matrix [a b c d e f]
type Matrix [6]float64

// Identity is the identity transformation
var Identity = Matrix{1, 0, 0, 1, 0, 0}

// Multiply returns m × n
func (m Matrix) Multiply(n Matrix) Matrix {
	return Matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

// Apply transforms the point (x, y)
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// fillOperators paint the current path's interior
var fillOperators = map[string]bool{
	"f": true, "F": true, "f*": true,
	"B": true, "B*": true, "b": true, "b*": true,
}

// strokeOperators paint only the outline
var strokeOperators = map[string]bool{
	"S": true, "s": true,
}

// ScanShapes collects the rectangles painted by a content stream. Only paths
// built with the re operator are reported; other path segments are ignored.
func ScanShapes(data []byte) ([]Shape, error) {
	return scanShapes(NewLexer(bytes.NewReader(data)))
}

func scanShapes(lexer *Lexer) ([]Shape, error) {
	var (
		shapes   []Shape
		operands []float64
		path     []Shape
		ctm      = Identity
		stack    []Matrix
	)

	for {
		tok, err := lexer.NextToken()
		if err != nil {
			if err == io.EOF {
				return shapes, nil
			}
			return shapes, err
		}

		switch tok.Type {
		case TokenEOF:
			return shapes, nil
		case TokenNumber:
			v, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				v = 0
			}
			operands = append(operands, v)
			continue
		case TokenOperator:
		default:
			continue
		}

		switch op := tok.Value; {
		case op == "q":
			stack = append(stack, ctm)
		case op == "Q":
			if n := len(stack); n > 0 {
				ctm = stack[n-1]
				stack = stack[:n-1]
			}
		case op == "cm" && len(operands) >= 6:
			o := operands[len(operands)-6:]
			ctm = Matrix{o[0], o[1], o[2], o[3], o[4], o[5]}.Multiply(ctm)
		case op == "re" && len(operands) >= 4:
			o := operands[len(operands)-4:]
			path = append(path, transformRect(ctm, o[0], o[1], o[2], o[3]))
		case fillOperators[op]:
			shapes = appendPainted(shapes, path, true)
			path = nil
		case strokeOperators[op]:
			shapes = appendPainted(shapes, path, false)
			path = nil
		case op == "n":
			path = nil
		}

		operands = operands[:0]
	}
}

func appendPainted(shapes, path []Shape, fill bool) []Shape {
	for _, s := range path {
		s.Fill = fill
		shapes = append(shapes, s)
	}
	return shapes
}

// transformRect maps an re rectangle through ctm and returns its bounding box
func transformRect(ctm Matrix, x, y, w, h float64) Shape {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)
	for _, p := range [][2]float64{{x, y}, {x + w, y}, {x, y + h}, {x + w, y + h}} {
		tx, ty := ctm.Apply(p[0], p[1])
		xs = append(xs, tx)
		ys = append(ys, ty)
	}
	return Shape{
		X0: min(xs[0], xs[1], xs[2], xs[3]),
		Y0: min(ys[0], ys[1], ys[2], ys[3]),
		X1: max(xs[0], xs[1], xs[2], xs[3]),
		Y1: max(ys[0], ys[1], ys[2], ys[3]),
	}
}

// Width returns the horizontal extent of the shape
func (s Shape) Width() float64 {
	return math.Abs(s.X1 - s.X0)
}

// Height returns the vertical extent of the shape
func (s Shape) Height() float64 {
	return math.Abs(s.Y1 - s.Y0)
}
