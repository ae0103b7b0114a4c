// Package nodes is the Play Traversal node pack: the loop open and close
// nodes, the tier constructors and accessors, backdrop persistence and a few
// latent helpers used by demo prompts.
//
// Register the pack with registry.New(&nodes.Module{...}).
package nodes
