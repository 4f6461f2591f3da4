// Package writer uploads the staged artifacts to the configured SFTP
// location: it derives destination paths, retries transient transfer
// failures and guarantees the connection is released when the run ends.
package writer

import (
	"path"
	"strings"
	"time"
)

// DefaultTimestampLayout is the timestamp layout used when append_date is on
// and no append_date_format is configured.
const DefaultTimestampLayout = "20060102150405"

// Resolver derives destination paths. Now is the clock used for date
// stamping; it defaults to time.Now.
type Resolver struct {
	Now func() time.Time
}

// Resolve builds the remote path for one artifact: the base directory
// (normalized to a single trailing slash), the name's stem, an optional
// "_<timestamp>" suffix and the original extension.
func (r *Resolver) Resolve(baseDir, name string, appendDate bool, layout string) string {
	base := strings.TrimRight(baseDir, "/") + "/"

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	suffix := ""
	if appendDate {
		if layout == "" {
			layout = DefaultTimestampLayout
		}
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		suffix = "_" + now().UTC().Format(layout)
	}

	return base + stem + suffix + ext
}
