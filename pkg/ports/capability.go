package ports

// EncoderCapabilities answers whether the runtime can encode a given codec.
// The negotiation policy (which codec to prefer) lives with the caller; this
// interface only reports availability.
type EncoderCapabilities interface {
	// Supports reports whether the codec identifier (e.g. "h264", "vp9",
	// "mjpeg") can be encoded on this system.
	Supports(codec string) bool
}
