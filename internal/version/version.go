// ABOUTME: Version and product identification constants
// ABOUTME: Shared by the commands, the control server and mDNS advertisement
package version

const (
	// Version is the release version
	Version = "0.3.0"

	// Product is the product name reported to clients
	Product = "Chorus"

	// Manufacturer is reported alongside the product name
	Manufacturer = "Resonate Protocol"
)

// String returns the product and version
func String() string {
	return Product + " " + Version
}
