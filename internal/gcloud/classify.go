package gcloud

import "strings"

// AlreadyExistsPhrase is the text gcloud prints when a create call targets an
// existing resource.
const AlreadyExistsPhrase = "already exists"

// IsAlreadyExists reports whether gcloud error output means the target
// resource already exists.
//
// gcloud has no structured status for this, so the check is a substring match
// on its human readable output. Every caller goes through here so the strategy
// can change in one place.
func IsAlreadyExists(output string) bool {
	return strings.Contains(output, AlreadyExistsPhrase)
}
