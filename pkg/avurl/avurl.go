// Package avurl parses and rebuilds media URLs the way FFmpeg does.
//
// The split logic is a port of av_url_split (libavformat/utils.c) without
// buffer-size truncation, so every URL FFmpeg accepts round-trips through
// this package unchanged. net/url is deliberately not used: RTSP sources in
// the wild carry characters net/url rejects.
package avurl

import (
	"errors"
	"fmt"
	"strings"
)

type URL struct {
	Schema   string `json:"schema"`
	Userinfo string `json:"userinfo"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Path     string `json:"path"`
}

// Parse splits a URL string into components and validates the host and port.
// URLs with embedded userinfo are rejected; credentials travel separately and
// are embedded at spawn time via EmbeddUserinfo.
func Parse(url string) (*URL, error) {
	schema, userinfo, host, port, path, meta := avurlSplit(url)

	/* invariant: url must equal re-joined parts; failure here means the split/join logic is broken */
	if url != avurlJoin(schema, userinfo, host, port, path, meta) {
		return nil, errors.New("unable to parse URL")
	}

	if meta.junk != "" /* leftover junk after ']' */ {
		return nil, errors.New("invalid URL")
	}

	if meta.hasAtSign {
		return nil, errors.New("userinfo should not be embedded in the URL")
	}

	if host != "" {
		if err := ValidateHost(host); err != nil {
			return nil, err
		}
	}

	if port != "" && !isPort(port) {
		return nil, fmt.Errorf("bad port: '%s'", port)
	}

	return &URL{
		Schema:   schema,
		Userinfo: userinfo,
		Host:     host,
		Port:     port,
		Path:     path,
	}, nil
}

// RawParse splits a URL string into components without host and port checks.
func RawParse(url string) (*URL, error) {
	schema, userinfo, host, port, path, meta := avurlSplit(url)

	if url != avurlJoin(schema, userinfo, host, port, path, meta) {
		return nil, errors.New("unable to parse URL")
	}

	return &URL{
		Schema:   schema,
		Userinfo: userinfo,
		Host:     host,
		Port:     port,
		Path:     path,
	}, nil
}

// Validate reports whether url parses cleanly under the Parse rules.
func Validate(url string) error {
	_, err := Parse(url)
	return err
}

// EmbeddUserinfo rebuilds url with the given credentials in the authority.
// A nil username leaves the URL untouched; a password without a username is
// ignored. Reserved characters in credentials are percent-encoded.
func EmbeddUserinfo(url string, username, password *string) string {
	schema, _, host, port, path, meta := avurlSplit(url)

	userinfo := ""
	if username != nil {
		meta.hasAtSign = true
		userinfo += escapUsername(*username)

		if password != nil {
			userinfo += ":" + escapPassword(*password)
		}
	}

	return avurlJoin(schema, userinfo, host, port, path, meta)
}

// Redacted strips any userinfo from url for log output. Returns url unchanged
// when nothing is embedded.
func Redacted(url string) string {
	schema, _, host, port, path, meta := avurlSplit(url)
	if !meta.hasAtSign {
		return url
	}
	return avurlJoin(schema, "***", host, port, path, meta)
}

// escapUsername escapes only '/', '?', '#' and ':' using percent-encoding.
func escapUsername(input string) string {
	replacer := strings.NewReplacer(
		"/", "%2F",
		"?", "%3F",
		"#", "%23",
		":", "%3A",
	)
	return replacer.Replace(input)
}

// escapPassword escapes only '/', '?', and '#' using percent-encoding.
func escapPassword(input string) string {
	replacer := strings.NewReplacer(
		"/", "%2F",
		"?", "%3F",
		"#", "%23",
	)
	return replacer.Replace(input)
}
