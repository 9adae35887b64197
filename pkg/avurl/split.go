package avurl

import (
	"strings"
)

// splitMeta records the separators observed during a split so that
// avurlJoin can reproduce the input byte for byte.
type splitMeta struct {
	hasSchema bool
	slashNum  int
	hasAtSign bool
	hasBrks   bool
	hasPort   bool
	junk      string
}

// avurlSplit is a Go port of FFmpeg's av_url_split(...) (libavformat/utils.c),
// without buffer-size truncation.
//
// Port handling difference:
//   - C: port parsed with atoi (non-digits ignored, empty→0): "123abc" → 123, "" → 0, "+42" → 42.
//   - Go: port kept as raw substring: "123abc", "", "+42".
func avurlSplit(url string) ( /* initialization: empty strings */ schema, userinfo, host, port, path string, meta splitMeta) {
	var cursor int

	/* -------- parse scheme (protocol) --------
	   example: "http:", "file:", "rtsp:"
	   copies everything up to ':' (exclusive) into `schema`
	   then skip ':', and optionally up to two leading '/'.
	*/
	if colon := strings.IndexByte(url, ':'); colon != -1 {
		meta.hasSchema = true
		schema = url[:colon]

		cursor = colon + 1 // skip ':'
		if cursor == len(url) {
			return
		}

		for meta.slashNum < 2 && url[cursor] == '/' {
			cursor++
			meta.slashNum++
			if cursor == len(url) {
				return
			}
		}
	} else {
		/* no ':' found; treat entire url as a plain path/filename */
		path = url
		return
	}

	/* -------- split authority vs path/query/fragment --------
	   everything from the first '/', '?', or '#' (inclusive) after `cursor` is the path.
	*/
	pathAt := cursor + strcspn(url[cursor:], "/?#") // pathAt always <= len(url)
	path = url[pathAt:]

	/* -------- parse authority: [userinfo@]host[:port] -------- */

	/* pathAt == cursor means the cursor already sits on '/', '?' or '#':
	   no authority, just schema:[//](/|?|#)... */
	if pathAt == cursor {
		return
	}

	/* ---- userinfo: everything up to the LAST '@' (exclusive) ---- */
	userinfoAt := cursor
	for {
		atSignRel := strings.IndexByte(url[cursor:pathAt], '@')
		if atSignRel == -1 {
			break
		}
		meta.hasAtSign = true
		atSignAbs := cursor + atSignRel
		userinfo = url[userinfoAt:atSignAbs] // overwrite until the last '@'
		cursor = atSignAbs + 1               // skip '@'
		if cursor == len(url) {
			return
		}
	}

	/* ---- IPv6 literal: [host]:port ---- */
	if closingBracketRel := strings.IndexByte(url[cursor:pathAt], ']'); closingBracketRel != -1 && url[cursor] == '[' {
		meta.hasBrks = true
		brkAbs := cursor + closingBracketRel
		host = url[cursor+1 : brkAbs] // stripped '[]'
		cursor = brkAbs + 1

		if cursor == len(url) {
			return
		}

		if url[cursor] == ':' {
			meta.hasPort = true
			port = url[cursor+1 : pathAt]
		} else if cursor != pathAt {
			// leftover junk between ']' and pathAt
			meta.junk = url[cursor:pathAt]
		}
		return
	}

	/* ---- IPv4/hostname, with or without :port ---- */
	if colonRel := strings.IndexByte(url[cursor:pathAt], ':'); colonRel != -1 {
		meta.hasPort = true
		colonAbs := cursor + colonRel
		host = url[cursor:colonAbs]
		port = url[colonAbs+1 : pathAt]
	} else {
		host = url[cursor:pathAt]
	}

	return
}

// strcspn returns the length of the initial segment of s that
// contains none of the bytes in reject.
func strcspn(s, reject string) int {
	if idx := strings.IndexAny(s, reject); idx != -1 {
		return idx
	}
	return len(s)
}
