package devsite

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the engine.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
