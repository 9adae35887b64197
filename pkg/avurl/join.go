package avurl

import "strings"

// avurlJoin is the inverse of avurlSplit: rebuilding with an unmodified
// splitMeta reproduces the original URL exactly.
func avurlJoin(schema, userinfo, host, port, path string, meta splitMeta) string {
	return schema + colon(meta.hasSchema) + strings.Repeat("/", meta.slashNum) +
		userinfo + atSign(meta.hasAtSign) +
		hostWithBrks(host, meta.hasBrks) + colon(meta.hasPort) + port +
		meta.junk + path
}

func atSign(b bool) string {
	if b {
		return "@"
	}
	return ""
}

func hostWithBrks(host string, hasBrks bool) string {
	if hasBrks {
		return "[" + host + "]"
	}
	return host
}

func colon(b bool) string {
	if b {
		return ":"
	}
	return ""
}
