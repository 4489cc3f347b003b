package rnfi

import "embed"

// EmbeddedAssets contains the stylesheet shipped with the site, served
// under /static/.
//
//go:embed static/*
var EmbeddedAssets embed.FS
