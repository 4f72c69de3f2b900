// Package types defines the Store and Backend interfaces, the entity kinds,
// and the standard error types for the hbnb object store.
package types
