//go:build !wasm

package webapp

import _ "embed"

// Stylesheet is served at /webapp/webapp.css by the server binaries
//
//go:embed webapp.css
var Stylesheet []byte
