package vector

import "github.com/go-gl/mathgl/mgl64"

import "fmt"
import "strconv"

// A position in machine space, in millimeters or inches depending on the
// program's units.
type Point = mgl64.Vec3

// Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return a.Sub(b).Len()
}

// Length of a, used for relative moves where a is the delta.
func DistanceToOrigin(a Point) float64 {
	return a.Len()
}

func String(p Point) string {
	return fmt.Sprintf("Point{X: %f, Y: %f, Z: %f}", p[0], p[1], p[2])
}

// CoordinateError is returned when an axis word does not hold a number.
type CoordinateError struct {
	Token string
	Err   error
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("invalid coordinate %q: %s", e.Token, e.Err)
}

func (e *CoordinateError) Unwrap() error {
	return e.Err
}

// Updates previous with the X, Y and Z words found in args.
// Axes that are not present are carried over unchanged.
func ExtractCoordinates(args []string, previous Point) (Point, error) {
	pos := previous
	for _, arg := range args {
		if len(arg) == 0 {
			continue
		}

		var axis int
		switch arg[0] {
		case 'X', 'x':
			axis = 0
		case 'Y', 'y':
			axis = 1
		case 'Z', 'z':
			axis = 2
		default:
			continue
		}

		f, err := strconv.ParseFloat(arg[1:], 64)
		if err != nil {
			return previous, &CoordinateError{arg, err}
		}
		pos[axis] = f
	}
	return pos, nil
}
