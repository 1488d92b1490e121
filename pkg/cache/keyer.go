package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// TranscodeTTL is how long transcoded image bytes are kept.
const TranscodeTTL = 30 * 24 * time.Hour

// transcodeVersion is part of every transcode key. Bump it when the
// encoder output changes so stale entries are never served.
const transcodeVersion = "1"

// Keyer builds cache keys.
type Keyer interface {
	// TranscodeKey identifies the transcoded form of a source image.
	TranscodeKey(contentHash string, opts TranscodeKeyOpts) string
}

// TranscodeKeyOpts holds the parameters that change transcoding output.
type TranscodeKeyOpts struct {
	SourceFormat string
	TargetFormat string
}

// DefaultKeyer derives keys of the form "transcode:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TranscodeKey hashes the content hash together with the formats and the
// transcoder version.
func (DefaultKeyer) TranscodeKey(contentHash string, opts TranscodeKeyOpts) string {
	return "transcode:" + hashParts(transcodeVersion, contentHash, opts.SourceFormat, opts.TargetFormat)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashParts hashes parts joined by NUL, which cannot occur in any of them.
func hashParts(parts ...string) string {
	return Hash([]byte(strings.Join(parts, "\x00")))
}
