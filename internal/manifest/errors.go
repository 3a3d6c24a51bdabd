package manifest

import "errors"

var (
	errMalformedManifest = errors.New("manifest root is not a map")
	errMissingID         = errors.New("manifest has neither id nor name")
)
