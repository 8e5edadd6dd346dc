// Package banner renders the startup banner printed by the CLI.
package banner

import "fmt"

const art = `
   _       _      __ _ _ _
  (_) ___ | |__  / _(_) | |
  | |/ _ \| '_ \| |_| | | |
  | | (_) | |_) |  _| | | |
 _/ |\___/|_.__/|_| |_|_|_|
|__/
`

// Banner returns the banner with the version line appended.
func Banner(version string) string {
	return fmt.Sprintf("%s  jobfill %s\n\n", art, version)
}
