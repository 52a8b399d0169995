// Package banner prints the startup ASCII banner, the one-line contract the
// core expects from this external collaborator (see spec.md §1).
package banner

import "fmt"

const art = `
 _
| | ____ _ _ __   __ _
| |/ / _' | '_ \ / _' |
|   < (_| | | | | (_| |
|_|\_\__,_|_| |_|\__, |
                 |___/
`

// Print writes the banner to stdout. Called once at boot before the first
// log line.
func Print() {
	fmt.Print(art)
}
