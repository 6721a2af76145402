// package repositories provides the persistence layer: the cover-art lookup
// cache and the local submission log, both backed by SQLite.
package repositories
