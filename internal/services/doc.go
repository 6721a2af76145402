// package services contains thin HTTP clients for the admin (download)
// service's JSON API.
package services
