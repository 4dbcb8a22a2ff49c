// Package engines holds the speech.Engine implementations: espeak drives
// the eSpeak NG synthesizer and mock is an in-memory engine for tests.
package engines
