package entity

import "errors"

// Error taxonomy for the bridge. Permission failures are always surfaced to
// the requesting user; not-found conditions are normal negative results;
// validation failures are rejected before any mutating platform call.
var (
	// ErrPermissionDenied indicates the bot lacks a required Discord
	// capability (webhook management, thread creation, sending).
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotOwner indicates the claimant failed every ownership check for a
	// times thread.
	ErrNotOwner = errors.New("not the thread owner")

	// ErrInvalidName indicates a requested name was empty after sanitization.
	ErrInvalidName = errors.New("invalid thread name")

	// ErrChannelNotText indicates an operation that requires a guild text
	// channel was pointed at something else.
	ErrChannelNotText = errors.New("channel is not a text channel")
)
