// Package templates embeds default configuration files.
package templates

import "embed"

//go:embed stagehand.yaml
var FS embed.FS
