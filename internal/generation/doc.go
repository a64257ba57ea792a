// Package generation turns method descriptors into binding source: it converts
// every parameter and hands the result to the registered renderers.
package generation
