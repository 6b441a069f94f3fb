// Package utils provides the decorators every transaction of the
// application passes through: panic recovery, logging, metrics, savepoints
// and result tagging.
package utils
