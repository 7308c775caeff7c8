// Command punktf deploys and manages dotfiles across multiple target
// machines using profile-driven templates.
package main

import (
	"os"

	"github.com/Shemnei/punktf/internal/app"
	"github.com/Shemnei/punktf/internal/profile"
)

// Version is set via -ldflags "-X main.Version=...". Left empty it falls
// back to the dev sentinel, which also disables the min_punktf_version gate.
var Version string

func main() {
	version := Version
	if version == "" {
		version = profile.PunktfVersion
	} else {
		profile.PunktfVersion = version
	}

	os.Exit(app.Execute(version))
}
