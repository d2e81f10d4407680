// Package web holds the static chat UI.
package web

import _ "embed"

//go:embed index.html
var Index []byte
