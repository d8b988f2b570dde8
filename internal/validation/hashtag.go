package validation

import (
	"fmt"
	"regexp"

	"reelhub/internal/models"
)

var hashtagRegex = regexp.MustCompile(`^[\p{L}\p{N}_]{1,50}$`)

// ValidateHashtag accepts a tag with or without its leading '#'. Letters,
// digits and underscores only, at most 50 characters once normalized.
func ValidateHashtag(tag string) error {
	n := models.NormalizeHashtag(tag)
	if n == "" {
		return fmt.Errorf("hashtag cannot be empty")
	}
	if !hashtagRegex.MatchString(n) {
		return fmt.Errorf("hashtag must be 1-50 letters, digits or underscores")
	}
	return nil
}
