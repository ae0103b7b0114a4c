// Package config defines the format-agnostic model of a play authoring file
// and the Loader interface that produces it.
//
// A PlayFile keeps the 1-based slot ordinals of its acts, scenes and beats;
// PlayFile.Build places them and hands the result to play.Build, so the same
// gap rules apply to authored files as to graph-built trees. Concrete loaders,
// such as the HCL one, live in separate packages.
package config
