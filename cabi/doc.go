// Package cabi exports the C entry points of a Mumble plugin and routes them
// into the plugin registered with Register.
//
// A plugin is a main package built with -buildmode=c-shared that imports
// this package and registers itself from init:
//
//	func init() {
//		cabi.Register(entities.Descriptor{Name: "Echo", Author: "me"}, &echo{})
//	}
//
//	func main() {}
//
// Without cgo the package still compiles, but registering panics.
package cabi
