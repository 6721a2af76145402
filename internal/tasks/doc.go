// package tasks implements the download job submission workflow against the
// admin service's JSON API.
package tasks
