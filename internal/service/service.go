// Package service contains the store boundary.
//
// It sits between callers and the repository layer. It acquires the
// shared pool, runs one repository call per operation and turns any
// failure into a logged, well-formed result instead of an error, so
// callers always get a value back.
package service
