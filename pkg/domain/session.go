package domain

// SessionHue buckets a session id into one of 17 hues on the color wheel.
// All cards belonging to one session share a hue, regardless of content.
// The hash matches the web client's (h = h*31 + c, truncated to int32), so
// server-rendered and client-rendered cards agree.
func SessionHue(sessionID string) int {
	var hash int32
	for _, r := range sessionID {
		hash = hash<<5 - hash + int32(r)
	}
	bucket := hash % 17
	if bucket < 0 {
		bucket = -bucket
	}
	return int(360 * bucket / 17)
}
