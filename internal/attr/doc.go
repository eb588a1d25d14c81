// Package attr defines the closed set of attribute value variants a rule can
// carry, the attribute types a rule class schema declares, and the total
// conversion from a raw value to a schema-conformant one.
package attr
