// Package migrations carries the schema migrations shipped inside the binary
// so the store can be bootstrapped idempotently before serving traffic.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
