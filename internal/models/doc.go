// package models defines the data model for the ripcast clients.
//
// Playlist and Track mirror the admin service's SSE event payloads and are
// mutated by whole-record replacement, never merged field by field.
// NowPlaying mirrors the metadata extracted from an Icecast status document.
package models
