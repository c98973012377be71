//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Analyze builds the CLI and reviews every PDF in input/.
func Analyze() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "analyze")
}

// Extract builds the CLI and writes a PaperRecord YAML file per PDF in input/.
func Extract() error {
	mg.Deps(Build, Init)
	return sh.RunV(binPath, "extract")
}

// Report re-renders every report format from output/literature_review.json.
func Report() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "report", "--format", "markdown,json,html,yaml,xlsx")
}

// Grobid groups targets for the local GROBID container.
type Grobid mg.Namespace

// Start starts GROBID and waits until it answers.
func (Grobid) Start() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "grobid", "start")
}

// Stop stops the GROBID container.
func (Grobid) Stop() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "grobid", "stop")
}

// Status reports whether GROBID is running.
func (Grobid) Status() error {
	mg.Deps(Build)
	return sh.RunV(binPath, "grobid", "status")
}
