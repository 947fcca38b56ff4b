//go:build !univ_debug

package record

const debugBuild = false
