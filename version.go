// Package toolcache provides the version information for toolcache.
package toolcache

// Version is the current version of toolcache.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
