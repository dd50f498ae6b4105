// Package smartcube connects a GoCube Bluetooth cube to an executor. The
// cube reports every physical face turn, which is replayed as a move.
package smartcube

import (
	"errors"
	"fmt"
)

// GoCube BLE Service and Characteristic UUIDs
const (
	ServiceUUID = "6e400001-b5a3-f393-e0a9-e50e24dcca9e"
	TxCharUUID  = "6e400003-b5a3-f393-e0a9-e50e24dcca9e" // Notify
	RxCharUUID  = "6e400002-b5a3-f393-e0a9-e50e24dcca9e" // Write
)

// Message types
const (
	MsgRotation     byte = 0x01
	MsgState        byte = 0x02
	MsgOrientation  byte = 0x03
	MsgBattery      byte = 0x05
	MsgOfflineStats byte = 0x07
	MsgCubeType     byte = 0x08
)

// Command codes for the RX characteristic
const (
	CmdRequestBattery     byte = 0x32
	CmdRequestState       byte = 0x33
	CmdResetSolved        byte = 0x35
	CmdDisableOrientation byte = 0x37
	CmdFlashBacklight     byte = 0x41
	CmdSlowFlashBacklight byte = 0x43
	CmdRequestCubeType    byte = 0x56
)

const (
	framePrefix  byte = 0x2A // '*'
	frameSuffix1 byte = 0x0D
	frameSuffix2 byte = 0x0A
)

var (
	ErrFrameShort    = errors.New("smartcube: frame too short")
	ErrFramePrefix   = errors.New("smartcube: bad frame prefix")
	ErrFrameSuffix   = errors.New("smartcube: bad frame suffix")
	ErrFrameChecksum = errors.New("smartcube: bad frame checksum")
	ErrFrameLength   = errors.New("smartcube: bad frame length")
	ErrPayload       = errors.New("smartcube: bad payload")
)

// Message is one decoded notification.
type Message struct {
	Type    byte
	Payload []byte
}

// ParseMessage unwraps a notification frame:
//
//	[0x2A] [length] [type] [payload...] [checksum] [0x0D 0x0A]
//
// length counts the bytes after itself. The checksum is the byte sum of
// everything before it.
func ParseMessage(data []byte) (Message, error) {
	if len(data) < 5 {
		return Message{}, ErrFrameShort
	}
	if data[0] != framePrefix {
		return Message{}, ErrFramePrefix
	}

	length := int(data[1])
	if len(data) < 2+length {
		return Message{}, fmt.Errorf("%w: want %d bytes, got %d", ErrFrameLength, 2+length, len(data))
	}
	sumIdx := length - 1
	if sumIdx < 3 {
		return Message{}, ErrFrameShort
	}
	if data[sumIdx+1] != frameSuffix1 || data[sumIdx+2] != frameSuffix2 {
		return Message{}, ErrFrameSuffix
	}

	var sum byte
	for _, b := range data[:sumIdx] {
		sum += b
	}
	if sum != data[sumIdx] {
		return Message{}, fmt.Errorf("%w: frame says 0x%02X, computed 0x%02X", ErrFrameChecksum, data[sumIdx], sum)
	}

	payload := make([]byte, sumIdx-3)
	copy(payload, data[3:sumIdx])
	return Message{Type: data[2], Payload: payload}, nil
}

// BuildCommand frames a command without payload.
func BuildCommand(cmd byte) []byte {
	const length byte = 0x01
	return []byte{framePrefix, length, cmd, framePrefix + length + cmd, frameSuffix1, frameSuffix2}
}

// TypeName returns a readable name for a message type.
func TypeName(t byte) string {
	switch t {
	case MsgRotation:
		return "rotation"
	case MsgState:
		return "state"
	case MsgOrientation:
		return "orientation"
	case MsgBattery:
		return "battery"
	case MsgOfflineStats:
		return "offline_stats"
	case MsgCubeType:
		return "cube_type"
	default:
		return fmt.Sprintf("unknown_0x%02X", t)
	}
}
