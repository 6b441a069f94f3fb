/*
Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each package keeps its configuration as a single entity, loaded from the
genesis file and updated only by a message signed by the configuration owner.
*/
package gconf
