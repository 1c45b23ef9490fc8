package enums

// ImageStatus describes the lifecycle state of an image record. The literal
// values are kept from the system this service replaced, so stored rows and
// existing clients keep working.
type ImageStatus string

const (
	ImageStatusPending   ImageStatus = "pendiente"
	ImageStatusProcessed ImageStatus = "procesada"
	ImageStatusError     ImageStatus = "error"
)

var validImageStatuses = []ImageStatus{
	ImageStatusPending,
	ImageStatusProcessed,
	ImageStatusError,
}

// String returns the literal string for the status.
func (s ImageStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s ImageStatus) IsValid() bool {
	for _, candidate := range validImageStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}
