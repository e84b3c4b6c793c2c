package services

import "fmt"

// MaxMediaItems is the attachment limit per post.
const MaxMediaItems = 3

// ValidateMedia enforces the attachment-count policy. Only the count is checked;
// content types are not part of the policy.
func ValidateMedia(media []MediaFile) error {
	if len(media) > MaxMediaItems {
		return fmt.Errorf("%w: got %d", ErrMediaLimitExceeded, len(media))
	}
	return nil
}
