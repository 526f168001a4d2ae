// Package utils holds small helpers shared by the crawler backends and the
// tool layer.
package utils
