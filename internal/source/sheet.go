package source

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidSheetURL indicates a link without a /d/<id> spreadsheet segment.
var ErrInvalidSheetURL = errors.New("invalid spreadsheet link")

// DefaultSheetHost is used when the link carries no host.
const DefaultSheetHost = "docs.google.com"

var (
	sheetIDPattern = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	gidPattern     = regexp.MustCompile(`gid=([0-9]+)`)
)

// SheetExportURL converts a spreadsheet link into its CSV export URL,
// keeping the host and the selected tab (gid).
func SheetExportURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	m := sheetIDPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidSheetURL, raw)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSheetURL, err)
	}

	scheme, host := u.Scheme, u.Host
	if host == "" {
		host = DefaultSheetHost
	}

	if scheme != "http" {
		scheme = "https"
	}

	export := fmt.Sprintf("%s://%s/spreadsheets/d/%s/export?format=csv", scheme, host, m[1])

	if g := gidPattern.FindStringSubmatch(u.RawQuery + "&" + u.Fragment); g != nil {
		export += "&gid=" + g[1]
	}

	return export, nil
}
