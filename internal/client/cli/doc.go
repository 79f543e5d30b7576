// Package cli provides the interactive Moodiary terminal client.
//
// NewApp wires configuration, session storage, the REST client and the
// services; App.Run resumes a stored session and blocks in a line based
// REPL until the user exits. Every authorized call goes through the session
// manager, so an expired access token is refreshed transparently and an
// unrecoverable session drops the REPL back to the login commands.
package cli
