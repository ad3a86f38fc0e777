// Package syncs provides synchronization primitives and utilities.
//
// Its main use in shellkit is serializing shell commands that share a working
// directory, while commands in unrelated directories run concurrently.
package syncs
