// Package hcl provides the HCL implementation of config.Loader. It parses a
// play authoring file, evaluates its attribute expressions and translates the
// blocks into the format-agnostic config.PlayFile.
package hcl
