// ABOUTME: Version and product identity constants
// ABOUTME: Reported in the remote hello, mDNS TXT records and -version output
package version

const (
	// Version is the release version of cuedeck
	Version = "0.3.0"

	// Product is the human-readable product name
	Product = "cuedeck"

	// Manufacturer identifies who builds this deck
	Manufacturer = "Resonate Protocol"
)

// String returns the product and version for banners
func String() string {
	return Product + " " + Version
}
