// Peerlens summarizes anonymous peer reviews from the command line.
//
// Usage:
//
//	peerlens summarize --input reviews.json --format markdown
//	peerlens classify "Great mentor, very helpful"
//	peerlens keywords "Code reviews are thorough"
//	peerlens pseudonym --reviewer alice --request REQ1 --at 2025-09-17T00:00:00Z
package main

import (
	"os"

	"github.com/soaringjerry/peerlens/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
