package mask

import "strings"

// Identity masks a phone number or email address for inclusion in API
// responses, e.g. "+919876543210" → "+91******3210", "jane@x.com" → "j***@x.com".
func Identity(identity string) string {
	if at := strings.IndexByte(identity, '@'); at > 0 {
		return identity[:1] + "***" + identity[at:]
	}
	if len(identity) <= 6 {
		return strings.Repeat("*", len(identity))
	}
	return identity[:3] + strings.Repeat("*", len(identity)-7) + identity[len(identity)-4:]
}
