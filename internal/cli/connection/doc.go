// Package connection provides the RESP client for voltkv-cli.
//
// It dials the server over plain TCP or TLS, encodes commands as RESP
// arrays of bulk strings, and decodes replies into Value trees that the
// command layer formats for display.
package connection
