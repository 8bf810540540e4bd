package core

// Device describes a playback output device. ID is an opaque backend
// identifier that round-trips from `device list` to `device set`; Name
// is what the user sees. The default device has IsDefault set.
type Device struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
	IsActive  bool   `json:"is_active"`
}
