// Package generator derives workspace configuration from a platform profile.
//
// [Generate] is pure: it returns the settings document and, on Windows, the
// launch script, and leaves writing to the caller. Every call for the same
// inputs yields an identical result.
package generator
