// Package geo provides great-circle distance math and a lightweight
// grid-based spatial index used for nearest-stop lookups.
package geo
