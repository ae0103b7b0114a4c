// Package cli builds the playtrav command tree and maps its failures to exit
// codes.
package cli
