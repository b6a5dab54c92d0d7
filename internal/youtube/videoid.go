package youtube

import (
	"errors"
	"regexp"
)

// ErrBadVideoRef is returned when a video reference is neither a bare video
// ID nor a recognizable YouTube URL.
var ErrBadVideoRef = errors.New("not a video id or youtube url")

var (
	urlIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?(?:.*&)?v=)([^&\n?#]+)`),
		regexp.MustCompile(`(?:youtu\.be/)([^&\n?#/]+)`),
		regexp.MustCompile(`(?:youtube\.com/embed/)([^&\n?#/]+)`),
		regexp.MustCompile(`(?:youtube\.com/shorts/)([^&\n?#/]+)`),
	}
	bareIDRE = regexp.MustCompile(`^[A-Za-z0-9_-]{6,64}$`)
)

// ParseVideoID extracts the provider-assigned video ID from a bare ID or any
// of the common YouTube URL shapes (watch, youtu.be, embed, shorts).
func ParseVideoID(ref string) (string, error) {
	for _, re := range urlIDPatterns {
		if m := re.FindStringSubmatch(ref); m != nil {
			return m[1], nil
		}
	}
	if bareIDRE.MatchString(ref) {
		return ref, nil
	}
	return "", ErrBadVideoRef
}
