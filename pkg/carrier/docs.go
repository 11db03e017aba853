package carrier

import "encoding/base64"

// BundleBase64 concatenates base64-encoded document fragments that share one
// logical document type into a single base64 blob, in input order. Fragments
// that fail to decode are appended raw; format reconciliation is the
// caller's concern, not this function's. A single fragment passes through
// unchanged and an empty input yields "".
func BundleBase64(fragments []string) string {
	switch len(fragments) {
	case 0:
		return ""
	case 1:
		return fragments[0]
	}

	var buf []byte
	for _, fragment := range fragments {
		decoded, err := base64.StdEncoding.DecodeString(fragment)
		if err != nil {
			buf = append(buf, fragment...)
			continue
		}
		buf = append(buf, decoded...)
	}
	return base64.StdEncoding.EncodeToString(buf)
}
