// Package entities holds the host-defined surface of the Mumble plugin ABI:
// handle newtypes, the error-code enumeration, version triples and the plugin
// descriptor. These types mirror the host header for API 1.0.x and must be
// re-checked whenever the targeted host ABI version changes.
package entities
