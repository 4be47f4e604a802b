// Package io provides the PAL machine's console (Tape), and the flat
// binary image file format (Rom).
package io
