// Package validation provides format checks for Reddit identifiers.
package validation

import "regexp"

// Regular expressions for validating Reddit data formats
var (
	// base36Regex matches base36 encoded IDs (0-9, a-z)
	base36Regex = regexp.MustCompile(`^[0-9a-z]+$`)

	// usernameRegex matches valid Reddit usernames (3-20 chars, alphanumeric + underscore + hyphen)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,20}$`)

	// fullnameRegex matches Reddit fullname IDs (type prefix + base36 ID)
	// Format: t[1-6]_[base36_id]
	fullnameRegex = regexp.MustCompile(`^t[1-6]_[0-9a-z]+$`)

	// permalinkRegex matches Reddit permalink format
	// Format: /r/{subreddit}/comments/{post_id}/{title_slug}/ or with /{comment_id}/
	permalinkRegex = regexp.MustCompile(`^/r/[a-zA-Z0-9_]{3,21}/comments/[0-9a-z]+/[^/]+/?([0-9a-z]+/?)?$`)
)

// IsValidBase36 checks if a string is a valid base36 encoded ID
func IsValidBase36(s string) bool {
	return s != "" && base36Regex.MatchString(s)
}

// IsValidUsername checks if a string is a valid Reddit username
func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// IsValidFullname checks if a string is a valid Reddit fullname ID
func IsValidFullname(s string) bool {
	return fullnameRegex.MatchString(s)
}

// IsValidPermalink checks if a string is a valid Reddit permalink
func IsValidPermalink(s string) bool {
	return s != "" && permalinkRegex.MatchString(s)
}
