// Package platform resolves the host operating system into a closed set of
// configuration profiles.
//
// [Probe] is the only code that looks at raw platform strings. Everything
// downstream switches on [Kind]:
//
//	profile := platform.Detect()
//	if err := profile.Err(); err != nil {
//	    return err // *UnsupportedPlatformError carrying the raw identifier
//	}
//
// Adding a platform means adding a Kind, an alias, and an overlay in the
// generator.
package platform
