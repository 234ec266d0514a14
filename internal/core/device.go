package core

// DeviceType indicates the kind of playback device.
type DeviceType string

const (
	DeviceTypeComputer DeviceType = "computer"
	DeviceTypePhone    DeviceType = "phone"
	DeviceTypeSpeaker  DeviceType = "speaker"
	DeviceTypeTV       DeviceType = "tv"
	DeviceTypeUnknown  DeviceType = "unknown"
)

// Device represents a playback device.
type Device struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       DeviceType `json:"type"`
	IsActive   bool       `json:"is_active"`
	Restricted bool       `json:"restricted,omitempty"`
	Volume     int        `json:"volume,omitempty"`
}
