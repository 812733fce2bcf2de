// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF files into audio.Source streams using
// github.com/go-audio/aiff.
//
// 16, 24 and 32-bit integer PCM are supported at any rate and channel
// count. Samples come out as float32 in [-1, 1]:
//
//	f, err := os.Open("strings.aif")
//	if err != nil {
//		return err
//	}
//	defer f.Close()
//
//	src, err := aiff.Decoder{}.Decode(f)
package aiff
