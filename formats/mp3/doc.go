// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III streams with
// github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every Source from this package
// reports two channels, even for mono files. Reads never split a frame.
package mp3
