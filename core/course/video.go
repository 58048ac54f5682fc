package course

import "regexp"

var youtubeRegex = regexp.MustCompile(`^(?:https?://)?(?:www\.)?(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)

// EmbedURL rewrites a YouTube watch or short link to its embeddable form.
// Any other URL is returned unchanged with ok = false.
func EmbedURL(raw string) (url string, ok bool) {
	m := youtubeRegex.FindStringSubmatch(raw)
	if m == nil {
		return raw, false
	}
	return "https://www.youtube.com/embed/" + m[1], true
}
