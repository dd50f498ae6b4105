package rubik

import (
	"fmt"
	"strings"
)

// Color represents a sticker color.
type Color byte

const (
	White  Color = 0 // Up face when solved
	Yellow Color = 1 // Down face when solved
	Green  Color = 2 // Front face when solved
	Blue   Color = 3 // Back face when solved
	Red    Color = 4 // Right face when solved
	Orange Color = 5 // Left face when solved

	// Hidden marks piece sides that face the inside of the cube.
	Hidden Color = 6
)

// Palette lists the six visible colors.
var Palette = [6]Color{White, Yellow, Green, Blue, Red, Orange}

// String returns the one letter color code.
func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	case Hidden:
		return "-"
	default:
		return "?"
	}
}

// Name returns the lowercase color name.
func (c Color) Name() string {
	switch c {
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Green:
		return "green"
	case Blue:
		return "blue"
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the six palette colors.
func (c Color) Valid() bool {
	return c <= Orange
}

// ParseColor accepts a color name or its one letter code.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return White, nil
	case "yellow", "y":
		return Yellow, nil
	case "green", "g":
		return Green, nil
	case "blue", "b":
		return Blue, nil
	case "red", "r":
		return Red, nil
	case "orange", "o":
		return Orange, nil
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidState, s)
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: color %d is not in the palette", ErrInvalidState, c)
	}
	return []byte(c.Name()), nil
}

// UnmarshalText decodes a color name.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Face identifies one side of the cube. Faces double as the six outward
// directions a piece sticker can point in.
type Face int

const (
	FaceR Face = 0 // Right (Red), +X
	FaceL Face = 1 // Left (Orange), -X
	FaceU Face = 2 // Up (White), +Y
	FaceD Face = 3 // Down (Yellow), -Y
	FaceF Face = 4 // Front (Green), +Z
	FaceB Face = 5 // Back (Blue), -Z
)

// Faces lists all faces in index order.
var Faces = [6]Face{FaceR, FaceL, FaceU, FaceD, FaceF, FaceB}

// String returns the face letter.
func (f Face) String() string {
	switch f {
	case FaceR:
		return "R"
	case FaceL:
		return "L"
	case FaceU:
		return "U"
	case FaceD:
		return "D"
	case FaceF:
		return "F"
	case FaceB:
		return "B"
	default:
		return "?"
	}
}

// Name returns the lowercase face name.
func (f Face) Name() string {
	switch f {
	case FaceR:
		return "right"
	case FaceL:
		return "left"
	case FaceU:
		return "up"
	case FaceD:
		return "down"
	case FaceF:
		return "front"
	case FaceB:
		return "back"
	default:
		return "unknown"
	}
}

// Valid reports whether f is one of the six faces.
func (f Face) Valid() bool {
	return f >= FaceR && f <= FaceB
}

// SolvedColor returns the color of the face when the cube is solved.
func (f Face) SolvedColor() Color {
	switch f {
	case FaceR:
		return Red
	case FaceL:
		return Orange
	case FaceU:
		return White
	case FaceD:
		return Yellow
	case FaceF:
		return Green
	case FaceB:
		return Blue
	default:
		return Hidden
	}
}

// ParseFace parses a face letter.
func ParseFace(s string) (Face, error) {
	switch s {
	case "R":
		return FaceR, nil
	case "L":
		return FaceL, nil
	case "U":
		return FaceU, nil
	case "D":
		return FaceD, nil
	case "F":
		return FaceF, nil
	case "B":
		return FaceB, nil
	}
	return 0, fmt.Errorf("%w: unknown face %q", ErrInvalidState, s)
}

// FaceOfColor returns the face whose solved color is c.
func FaceOfColor(c Color) (Face, bool) {
	for _, f := range Faces {
		if f.SolvedColor() == c {
			return f, true
		}
	}
	return 0, false
}
