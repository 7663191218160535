// Package calibration decodes the serialized liveCalibration event stored in the
// CalibrationParams param and renders it for the device settings panel.
package calibration

import (
	"errors"
	"fmt"

	"capnproto.org/go/capnp/v3"
)

// The param holds a framed Cap'n Proto message whose root is a log Event. Only the slots
// read here are described; offsets follow the compiled cereal layout.
const (
	// Event: logMonoTime @0 is data word 0, the union tag sits right after it and every
	// pointer-typed union member shares pointer slot 0.
	eventLogMonoTime capnp.DataOffset = 0
	eventWhich       capnp.DataOffset = 8
	eventUnionPtr    uint16           = 0
	// liveCalibration @19 is the 19th union member.
	eventWhichLiveCalibration uint16 = 18

	// LiveCalibrationData: calStatus @1 Int8 at byte 0, calPerc @3 Int8 at byte 1,
	// rpyCalib @7 in pointer slot 4.
	calStatus capnp.DataOffset = 0
	calPerc   capnp.DataOffset = 1
	calRPYPtr uint16           = 4
)

var (
	eventSize = capnp.ObjectSize{DataSize: 16, PointerCount: 1}
	calSize   = capnp.ObjectSize{DataSize: 16, PointerCount: 6}
)

var (
	ErrEmpty              = errors.New("calibration blob is empty")
	ErrNotLiveCalibration = errors.New("event does not carry liveCalibration")
	ErrMalformed          = errors.New("malformed calibration")
)

// LiveCalibration mirrors the fields the UI needs. RPY is roll, pitch, yaw in radians.
type LiveCalibration struct {
	Status  int32
	Percent int32
	RPY     []float32
}

func Decode(blob []byte) (LiveCalibration, error) {
	if len(blob) == 0 {
		return LiveCalibration{}, ErrEmpty
	}

	msg, err := capnp.Unmarshal(blob)
	if err != nil {
		return LiveCalibration{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	root, err := msg.Root()
	if err != nil {
		return LiveCalibration{}, fmt.Errorf("%w: event root: %v", ErrMalformed, err)
	}
	// Reads past a short data section yield zero, which is not the liveCalibration tag.
	event := root.Struct()
	if !root.IsValid() || event.Uint16(eventWhich) != eventWhichLiveCalibration {
		return LiveCalibration{}, ErrNotLiveCalibration
	}

	payload, err := event.Ptr(eventUnionPtr)
	if err != nil {
		return LiveCalibration{}, fmt.Errorf("%w: liveCalibration: %v", ErrMalformed, err)
	}
	if !payload.IsValid() {
		return LiveCalibration{}, fmt.Errorf("%w: liveCalibration is null", ErrMalformed)
	}
	s := payload.Struct()
	cal := LiveCalibration{
		Status:  int32(int8(s.Uint8(calStatus))),
		Percent: int32(int8(s.Uint8(calPerc))),
	}

	rpyPtr, err := s.Ptr(calRPYPtr)
	if err != nil {
		return LiveCalibration{}, fmt.Errorf("%w: rpyCalib: %v", ErrMalformed, err)
	}
	rpy := capnp.Float32List(rpyPtr.List())
	for i := 0; i < rpy.Len(); i++ {
		cal.RPY = append(cal.RPY, rpy.At(i))
	}
	if len(cal.RPY) != 3 {
		return LiveCalibration{}, fmt.Errorf("%w: rpyCalib has %d elements", ErrMalformed, len(cal.RPY))
	}

	return cal, nil
}

// Encode produces a framed single-segment message in the layout Decode reads.
func Encode(cal LiveCalibration, logMonoTime uint64) ([]byte, error) {
	msg, seg, err := capnp.NewMessage(capnp.SingleSegment(nil))
	if err != nil {
		return nil, fmt.Errorf("new message: %w", err)
	}
	event, err := capnp.NewRootStruct(seg, eventSize)
	if err != nil {
		return nil, fmt.Errorf("new event: %w", err)
	}
	event.SetUint64(eventLogMonoTime, logMonoTime)
	event.SetUint16(eventWhich, eventWhichLiveCalibration)

	s, err := capnp.NewStruct(seg, calSize)
	if err != nil {
		return nil, fmt.Errorf("new liveCalibration: %w", err)
	}
	s.SetUint8(calStatus, uint8(int8(cal.Status))) // #nosec G115 -- calStatus is Int8 on the wire.
	s.SetUint8(calPerc, uint8(int8(cal.Percent)))  // #nosec G115 -- calPerc is Int8 on the wire.
	if len(cal.RPY) > 0 {
		rpy, err := capnp.NewFloat32List(seg, int32(len(cal.RPY))) // #nosec G115 -- three elements.
		if err != nil {
			return nil, fmt.Errorf("new rpyCalib: %w", err)
		}
		for i, v := range cal.RPY {
			rpy.Set(i, v)
		}
		if err := s.SetPtr(calRPYPtr, rpy.ToPtr()); err != nil {
			return nil, fmt.Errorf("set rpyCalib: %w", err)
		}
	}
	if err := event.SetPtr(eventUnionPtr, s.ToPtr()); err != nil {
		return nil, fmt.Errorf("set liveCalibration: %w", err)
	}

	raw, err := msg.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	return raw, nil
}
