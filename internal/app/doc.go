// Package app wires the node pack, the reference host and the observers into
// the three things the binary does: plan a play file, run a prompt and serve
// the HTTP endpoints.
package app
