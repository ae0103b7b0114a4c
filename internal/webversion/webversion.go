// Package webversion selects which bundle of authoring-UI assets to serve.
//
// The choice lives under the WEB_VERSION key of config.yaml in the plugin
// directory and names a subdirectory of web_version/. When the key is absent
// the default is written back; when the named directory is missing the
// default is served instead.
package webversion

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vk/playtraversal/internal/ctxlog"
)

const (
	// Default is served when nothing else is configured.
	Default = "v2"
	// Key is the config.yaml key holding the version.
	Key = "WEB_VERSION"

	configFile = "config.yaml"
	webDir     = "web_version"
)

// Selection is the outcome of Resolve.
type Selection struct {
	Version string
	// Dir is the asset directory, relative to the plugin directory.
	Dir string
	// Fallback is set when the configured version had no asset directory.
	Fallback bool
}

// Path joins Dir onto pluginDir.
func (s Selection) Path(pluginDir string) string {
	return filepath.Join(pluginDir, s.Dir)
}

// Resolve reads <pluginDir>/config.yaml and picks the web asset directory.
func Resolve(ctx context.Context, pluginDir string) (Selection, error) {
	logger := ctxlog.FromContext(ctx)
	path := filepath.Join(pluginDir, configFile)

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return selection(Default), nil
	}
	if err != nil {
		return Selection{}, fmt.Errorf("read %s: %w", path, err)
	}

	data := map[string]any{}
	if err := yaml.Unmarshal(b, &data); err != nil {
		return Selection{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if data == nil {
		data = map[string]any{}
	}

	version, ok := data[Key].(string)
	if !ok || version == "" {
		version = Default
		data[Key] = version
		out, err := yaml.Marshal(data)
		if err != nil {
			return Selection{}, fmt.Errorf("encode %s: %w", path, err)
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return Selection{}, fmt.Errorf("write %s: %w", path, err)
		}
		logger.Debug("Wrote default web version.", "path", path, "version", version)
	}

	sel := selection(version)
	if info, err := os.Stat(sel.Path(pluginDir)); err != nil || !info.IsDir() {
		logger.Warn("Web root not found, using default.", "version", version, "default", Default)
		sel = selection(Default)
		sel.Fallback = version != Default
	}
	return sel, nil
}

func selection(version string) Selection {
	return Selection{Version: version, Dir: filepath.Join(webDir, version)}
}
