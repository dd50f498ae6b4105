package smartcube

import (
	"fmt"

	"github.com/SeamusWaldron/rubik"
)

// Face codes count center colors in this order; even codes turn clockwise.
var codeColors = [6]rubik.Color{rubik.Blue, rubik.Green, rubik.White, rubik.Yellow, rubik.Red, rubik.Orange}

// Rotation is one reported face turn.
type Rotation struct {
	Code              byte
	CenterOrientation byte
	Move              rubik.Move
}

// DecodeRotations decodes a rotation payload of [code][center] pairs. Faces
// are named by center color with white up and green in front.
func DecodeRotations(payload []byte) ([]Rotation, error) {
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("%w: rotation payload has odd length %d", ErrPayload, len(payload))
	}

	out := make([]Rotation, 0, len(payload)/2)
	for i := 0; i < len(payload); i += 2 {
		code := payload[i]
		idx := int(code / 2)
		if idx >= len(codeColors) {
			return nil, fmt.Errorf("%w: face code 0x%02X", ErrPayload, code)
		}
		face, _ := rubik.FaceOfColor(codeColors[idx])
		turn := rubik.CW
		if code%2 == 1 {
			turn = rubik.CCW
		}
		out = append(out, Rotation{
			Code:              code,
			CenterOrientation: payload[i+1],
			Move:              rubik.Move{Face: face, Turn: turn},
		})
	}
	return out, nil
}

// DecodeBattery returns the battery percentage.
func DecodeBattery(payload []byte) (int, error) {
	if len(payload) < 1 {
		return 0, fmt.Errorf("%w: empty battery payload", ErrPayload)
	}
	return int(payload[0]), nil
}

// DecodeCubeType returns "standard" or "edge".
func DecodeCubeType(payload []byte) (string, error) {
	if len(payload) < 1 {
		return "", fmt.Errorf("%w: empty cube type payload", ErrPayload)
	}
	if payload[0] == 0x01 {
		return "edge", nil
	}
	return "standard", nil
}
