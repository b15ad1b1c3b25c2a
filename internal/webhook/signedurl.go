package webhook

import (
	"net/url"
	"regexp"
	"strings"
)

// signedURLParams is the ordered query-parameter set of a presigned
// storage URL. The platform sometimes strips the query string from the
// media URL and delivers these as separate sibling keys.
var signedURLParams = []string{
	"X-Amz-Algorithm",
	"X-Amz-Credential",
	"X-Amz-Date",
	"X-Amz-Expires",
	"X-Amz-SignedHeaders",
	"X-Amz-Signature",
}

var signedParamPattern = regexp.MustCompile(`(?i)(X-Amz-[A-Za-z]+)["':=\s]+"?([A-Za-z0-9%/+=\-_.~]+)`)

// collectSignedParams finds presigned-URL parameters anywhere in the
// payload: structured keys first, then pattern search over the raw text.
func collectSignedParams(p *payload) map[string]string {
	found := map[string]string{}
	for _, m := range signedParamPattern.FindAllStringSubmatch(p.searchText(), -1) {
		name := canonicalSignedParam(m[1])
		if name == "" {
			continue
		}
		if _, ok := found[name]; !ok {
			found[name] = strings.TrimRight(m[2], `"`)
		}
	}
	return found
}

func canonicalSignedParam(name string) string {
	for _, p := range signedURLParams {
		if strings.EqualFold(p, name) {
			return p
		}
	}
	return ""
}

// repairMediaURL completes a media URL whose signature query string was
// delivered out-of-band, and synthesizes a canonical storage URL when the
// payload carried no URL at all but identifies the object.
func repairMediaURL(d *draft, p *payload, storageBase string) {
	params := collectSignedParams(p)

	if d.mediaURL == "" {
		if storageBase == "" || d.tenantID == "" || d.senderID == "" || d.messageID == "" {
			return
		}
		d.mediaURL = strings.TrimRight(storageBase, "/") + "/" +
			d.tenantID + "/" + d.senderID + "/" + d.messageID
	}

	if len(params) == 0 || strings.Contains(d.mediaURL, "X-Amz-Signature") {
		return
	}
	if _, ok := params["X-Amz-Signature"]; !ok {
		return
	}

	sep := "?"
	if strings.Contains(d.mediaURL, "?") {
		sep = "&"
	}
	var parts []string
	for _, name := range signedURLParams {
		if v, ok := params[name]; ok {
			parts = append(parts, name+"="+url.QueryEscape(v))
		}
	}
	d.mediaURL += sep + strings.Join(parts, "&")
}
