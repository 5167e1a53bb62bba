package home

import "net/url"

// LivestreamEmbedURL is the autoplaying YouTube embed for a video id.
func LivestreamEmbedURL(videoID string) string {
	if videoID == "" {
		return ""
	}
	return "https://www.youtube.com/embed/" + url.PathEscape(videoID) + "?autoplay=1"
}
