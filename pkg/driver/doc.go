// Package driver manages the Playwright driver: locating or downloading a
// release for the current platform, spawning it as a child process, and
// speaking its length-prefixed JSON protocol over stdio.
//
// A [Driver] value describes one installed (or installable) driver version.
// [Download] fetches a release from the CDN into the local cache directory.
// [Transport] frames raw messages; [Connection] adds request/reply
// correlation, the remote object registry, and event dispatch on top.
package driver
