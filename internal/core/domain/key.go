package domain

// KeyMaterial is a strong name key, either generated in memory or loaded from a file.
// The engine never looks inside Blob; only key codecs and metadata providers do.
type KeyMaterial struct {
	Blob     []byte
	Password string
	// Origin is the file the key was read from, empty for generated keys.
	Origin string
}

// IsGenerated reports whether the key was generated for the current invocation.
func (k KeyMaterial) IsGenerated() bool {
	return k.Origin == ""
}
