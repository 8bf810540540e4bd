package tail

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/arialabs/aria/internal/core"
)

// Formatter formats events for output.
type Formatter struct {
	showEmoji     bool
	showTimestamp bool
	template      *template.Template
}

// FormatterOption configures a Formatter.
type FormatterOption func(*Formatter)

// WithEmoji enables emoji output.
func WithEmoji(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showEmoji = enabled
	}
}

// WithTimestamp enables timestamp output.
func WithTimestamp(enabled bool) FormatterOption {
	return func(f *Formatter) {
		f.showTimestamp = enabled
	}
}

// WithTemplate sets a custom format template.
func WithTemplate(tmpl string) FormatterOption {
	return func(f *Formatter) {
		if tmpl != "" {
			t, err := template.New("format").Parse(tmpl)
			if err == nil {
				f.template = t
			}
		}
	}
}

// NewFormatter creates a new formatter with the given options.
func NewFormatter(opts ...FormatterOption) *Formatter {
	f := &Formatter{
		showEmoji:     true,
		showTimestamp: false,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format formats an event as a string.
func (f *Formatter) Format(e Event) string {
	if f.template != nil {
		return f.formatTemplate(e)
	}
	return f.formatLine(e)
}

// formatLine formats an event as a simple line.
func (f *Formatter) formatLine(e Event) string {
	var parts []string

	if f.showTimestamp {
		parts = append(parts, e.Timestamp.Format("15:04:05"))
	}
	if f.showEmoji {
		parts = append(parts, eventEmoji(e.Type))
	}
	parts = append(parts, f.eventDescription(e))

	return strings.Join(parts, " ")
}

// formatTemplate formats an event using a custom template.
func (f *Formatter) formatTemplate(e Event) string {
	data := templateData{
		Type:      eventTypeName(e.Type),
		Emoji:     eventEmoji(e.Type),
		Timestamp: e.Timestamp,
		Time:      e.Timestamp.Format("15:04:05"),
		Volume:    e.Current.Volume,
		Device:    e.Current.Device,
		Position:  core.FormatTime(e.Current.Elapsed),
	}

	if t := e.Current.Track; t != nil {
		data.Title = t.DisplayName()
		data.Artist = t.ArtistName()
		data.Path = t.Path
	}

	var buf bytes.Buffer
	if err := f.template.Execute(&buf, data); err != nil {
		return f.formatLine(e)
	}
	return buf.String()
}

type templateData struct {
	Type      string
	Emoji     string
	Timestamp time.Time
	Time      string
	Title     string
	Artist    string
	Path      string
	Device    string
	Position  string
	Volume    int
}

// eventDescription returns a human-readable description of the event.
func (f *Formatter) eventDescription(e Event) string {
	switch e.Type {
	case EventTrackChange:
		if t := e.Current.Track; t != nil {
			return fmt.Sprintf("Now playing: %s - %s", t.ArtistName(), t.DisplayName())
		}
		return "Track changed"

	case EventTrackComplete:
		if t := e.Previous.Track; t != nil {
			return fmt.Sprintf("Finished: %s - %s", t.ArtistName(), t.DisplayName())
		}
		return "Track completed"

	case EventTrackSkip:
		if t := e.Previous.Track; t != nil {
			return fmt.Sprintf("Skipped: %s - %s", t.ArtistName(), t.DisplayName())
		}
		return "Track skipped"

	case EventPause:
		return "Paused"

	case EventResume:
		return "Resumed"

	case EventStop:
		return "Stopped"

	case EventSeek:
		return fmt.Sprintf("Seeked to %s", core.FormatTime(e.Current.Elapsed))

	case EventVolumeChange:
		return fmt.Sprintf("Volume: %d%%", e.Current.Volume)

	case EventDeviceChange:
		if e.Current.Device != "" {
			return fmt.Sprintf("Device: %s", e.Current.Device)
		}
		return "Device: default"

	case EventError:
		if e.Current.Err != "" {
			return fmt.Sprintf("Error: %s", e.Current.Err)
		}
		return "Playback error"

	default:
		return "Unknown event"
	}
}

// eventEmoji returns an emoji for the event type.
func eventEmoji(t EventType) string {
	switch t {
	case EventTrackChange:
		return "🎵"
	case EventTrackComplete:
		return "✅"
	case EventTrackSkip:
		return "⏭️"
	case EventPause:
		return "⏸️"
	case EventResume:
		return "▶️"
	case EventStop:
		return "⏹️"
	case EventSeek:
		return "⏩"
	case EventVolumeChange:
		return "🔊"
	case EventDeviceChange:
		return "📱"
	case EventError:
		return "❌"
	default:
		return "❓"
	}
}

// eventTypeName returns the name of the event type.
func eventTypeName(t EventType) string {
	switch t {
	case EventTrackChange:
		return "track_change"
	case EventTrackComplete:
		return "track_complete"
	case EventTrackSkip:
		return "track_skip"
	case EventPause:
		return "pause"
	case EventResume:
		return "resume"
	case EventStop:
		return "stop"
	case EventSeek:
		return "seek"
	case EventVolumeChange:
		return "volume_change"
	case EventDeviceChange:
		return "device_change"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}
