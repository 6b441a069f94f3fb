// Package swaptest provides mocks and helpers shared by tests of all packages.
package swaptest
