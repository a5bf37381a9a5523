// Package flatten turns a nested document into a flat path lookup.
//
// Given
//
//	user:
//	  name: John
//	  address:
//	    city: Oslo
//	  tags: [a, b]
//
// Flatten produces
//
//	user.name         -> "John"
//	user.address.city -> "Oslo"
//	user.tags         -> ["a", "b"]
//
// Mappings are never stored themselves, only their descendants. Sequences are
// leaves and are stored whole. Keys that cannot form a path segment (they are
// empty, contain the separator, or are not strings or integers) are dropped
// together with their subtree and reported as Diagnostics; Flatten never logs.
//
// Each recursive call receives its own prefix and returns its own result,
// which the caller merges. There is no shared path state to repair between
// siblings.
package flatten
