// Package domain contains the core entities and value objects of the
// application: the generation request that is collected from the operator,
// the cache key derived from it, and the bounds of the creativity parameter.
// It is independent of any specific infrastructure or delivery mechanism.
package domain
