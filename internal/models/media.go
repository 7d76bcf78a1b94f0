package models

import "fmt"

// MediaKind tags a media reference attached to a lesson. The platform
// stores references as opaque URIs and never fetches or transcodes them.
type MediaKind string

const (
	MediaKindNone  MediaKind = "none"
	MediaKindVideo MediaKind = "video-uri"
	MediaKindAudio MediaKind = "audio-uri"
)

// MediaRef is a tagged media reference. Kind "none" carries no URI.
type MediaRef struct {
	Kind MediaKind `json:"kind"`
	URI  string    `json:"uri,omitempty"`
}

// Validate checks the reference at the request boundary: the kind must be
// "none" or the expected kind for the field, and any non-none kind must
// carry a URI.
func (m *MediaRef) Validate(expected MediaKind) error {
	switch m.Kind {
	case MediaKindNone:
		return nil
	case expected:
		if m.URI == "" {
			return fmt.Errorf("%w: media reference of kind %q requires a uri", ErrValidation, m.Kind)
		}
		return nil
	default:
		return fmt.Errorf("%w: unsupported media kind %q, expected %q or %q", ErrValidation, m.Kind, expected, MediaKindNone)
	}
}
