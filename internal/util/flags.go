package util

import (
	"flag"
	"fmt"
	"os"

	"github.com/sweets9/SOC-ThreatViz/pkg/version"
)

var (
	versionFlagS *bool
	versionFlagL *bool
)

func init() {
	versionFlagS = flag.Bool("v", false, "Print version information")
	versionFlagL = flag.Bool("version", false, "Print version information")
}

// ParseFlags parses the command line flags and handles the version flags
func ParseFlags() {
	flag.Parse()

	if *versionFlagS || *versionFlagL {
		fmt.Println(version.Info())
		os.Exit(0)
	}
}
