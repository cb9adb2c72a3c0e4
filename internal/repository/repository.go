// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist
// or delete data, abstracting SQL logic away from the service layer.
// Methods return plain Go errors; turning them into store results is
// the service layer's job.
package repository
