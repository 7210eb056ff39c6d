// Package schemasassets provides embedded JSON schemas so validation works in
// installed binaries regardless of the working directory.
package schemasassets

import _ "embed"

// SettingsSchema is the embedded settings document JSON schema.
//
//go:embed settings.schema.json
var SettingsSchema []byte
