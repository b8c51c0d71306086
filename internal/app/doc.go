// Package app wires the engine together: configuration, logging, directive
// registration, the style profile, and the run loop that either resolves
// model files to dot output or serves a live session to an external shell.
package app
