// Package schema declares the recognized options for attribute definitions.
//
// An option schema is plain data: an ordered list of option specifications,
// each carrying a type tag, an optional default, and documentation. Named
// variants (timestamps, primary keys) are derived from the base schema by
// overriding defaults and removing options; derivation happens once at wiring
// time and the results are immutable thereafter, so schemas are safe for
// unrestricted concurrent reads.
package schema
