// Package sink abstracts the platform audio output. The malgo
// (miniaudio) backend registers a data callback that the platform
// invokes on a hard real-time schedule; the callback only runs the
// Renderer pass.
package sink

import (
	"fmt"
	"strconv"
	"strings"
	"unsafe"

	"github.com/gen2brain/malgo"
	"go.uber.org/zap"

	"github.com/arialabs/aria/internal/core"
	"github.com/arialabs/aria/internal/errors"
)

// Sink owns the audio callback registration for one output device.
type Sink interface {
	// Open registers render as the device callback and starts the
	// stream. deviceID may be empty for the platform default.
	Open(deviceID string, render func([]float32)) error

	// Devices enumerates playback devices.
	Devices() ([]core.Device, error)

	Close() error
}

// Malgo is the miniaudio-backed Sink.
type Malgo struct {
	sampleRate uint32
	channels   uint32
	log        *zap.Logger

	ctx    *malgo.AllocatedContext
	device *malgo.Device
	active string
}

// NewMalgo initializes the miniaudio context.
func NewMalgo(sampleRate, channels int, log *zap.Logger) (*Malgo, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		log.Debug("miniaudio", zap.String("message", strings.TrimSpace(message)))
	})
	if err != nil {
		return nil, &errors.FatalError{Op: "init audio context", Err: err}
	}
	return &Malgo{
		sampleRate: uint32(sampleRate),
		channels:   uint32(channels),
		log:        log,
		ctx:        ctx,
	}, nil
}

// Devices lists playback devices. IDs round-trip through Open.
func (m *Malgo) Devices() ([]core.Device, error) {
	infos, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, &errors.FatalError{Op: "enumerate devices", Err: err}
	}

	devices := make([]core.Device, len(infos))
	for i, info := range infos {
		name := info.Name()
		devices[i] = core.Device{
			ID:        name,
			Name:      name,
			IsDefault: info.IsDefault != 0,
			IsActive:  m.active != "" && m.active == name,
		}
	}
	return devices, nil
}

// resolve matches id against device names, exactly or by 1-based index.
func (m *Malgo) resolve(id string) (*malgo.DeviceInfo, error) {
	infos, err := m.ctx.Devices(malgo.Playback)
	if err != nil {
		return nil, &errors.FatalError{Op: "enumerate devices", Err: err}
	}

	for i := range infos {
		if infos[i].Name() == id {
			return &infos[i], nil
		}
	}
	if idx, err := strconv.Atoi(id); err == nil && idx >= 1 && idx <= len(infos) {
		return &infos[idx-1], nil
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrDeviceNotFound, id)
}

// Open starts the output stream on deviceID, tearing down any stream
// already running. render is invoked from the device callback with an
// interleaved float32 buffer to fill. An unknown deviceID fails with
// ErrDeviceNotFound before the running stream is touched.
func (m *Malgo) Open(deviceID string, render func([]float32)) error {
	cfg := malgo.DefaultDeviceConfig(malgo.Playback)
	cfg.Playback.Format = malgo.FormatF32
	cfg.Playback.Channels = m.channels
	cfg.SampleRate = m.sampleRate
	cfg.Alsa.NoMMap = 1

	name := "default"
	if deviceID != "" {
		info, err := m.resolve(deviceID)
		if err != nil {
			return err
		}
		id := info.ID
		cfg.Playback.DeviceID = id.Pointer()
		name = info.Name()
	}

	if m.device != nil {
		m.device.Uninit()
		m.device = nil
		m.active = ""
	}

	channels := int(m.channels)
	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, frames uint32) {
			n := int(frames) * channels
			if n == 0 || len(out) < n*4 {
				return
			}
			samples := unsafe.Slice((*float32)(unsafe.Pointer(&out[0])), n)
			render(samples)
		},
	}

	device, err := malgo.InitDevice(m.ctx.Context, cfg, callbacks)
	if err != nil {
		return &errors.FatalError{Op: "open device " + name, Err: err}
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return &errors.FatalError{Op: "start device " + name, Err: err}
	}

	m.device = device
	m.active = name
	m.log.Info("audio device opened",
		zap.String("device", name),
		zap.Uint32("sample_rate", m.sampleRate),
		zap.Uint32("channels", m.channels))
	return nil
}

// Close stops the stream and releases the context.
func (m *Malgo) Close() error {
	if m.device != nil {
		m.device.Uninit()
		m.device = nil
	}
	if m.ctx != nil {
		err := m.ctx.Uninit()
		m.ctx.Free()
		m.ctx = nil
		if err != nil {
			return &errors.FatalError{Op: "close audio context", Err: err}
		}
	}
	return nil
}

var _ Sink = (*Malgo)(nil)
