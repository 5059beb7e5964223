// Package models defines the normalized record shapes returned by the proxy.
//
// The YouTube Music API returns deeply nested, shape-shifting JSON. Everything
// that leaves this service is flattened into [Track], [Playlist], or
// [SampleTrack] with a fixed field set, substituting empty values for absent
// upstream fields.
package models
