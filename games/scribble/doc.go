/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scribble implements the authoritative state of a draw-and-guess
// party game: rooms, turn rotation, secret words, guesses and scoring.
//
// A Registry owns rooms by code. Each Room serializes its own mutations and
// reports every change as an Event to the configured Publisher, in the order
// the changes were made.
package scribble
