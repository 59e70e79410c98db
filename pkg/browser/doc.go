// Package browser drives a Chromium instance over the DevTools protocol.
//
// A Page owns one browser process with one tab. Every operation takes a
// context; bounded waits report a timeout error and any other DevTools
// failure reports a browser error, both of which end the current hashtag.
package browser
