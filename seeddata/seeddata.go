package seeddata

import _ "embed"

//go:embed currencies.json
var CurrenciesJSON []byte

//go:embed region_rails.json
var RegionRailsJSON []byte

//go:embed users.json
var UsersJSON []byte
