// Package cache keeps recently synthesized audio in memory so repeated
// utterances skip the synthesizer.
package cache
