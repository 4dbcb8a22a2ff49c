// Package audio plays synthesized speech. It decodes the WAV produced by the
// synthesizer and streams the PCM payload to the sound card through oto/v3.
package audio
