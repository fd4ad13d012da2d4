package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/rshade/vaultctl/internal/listing"
)

// KeyFor derives a deterministic key for one page request against the vault at
// baseURL. The keyword only contributes in search mode, matching what the
// backend receives.
func KeyFor(baseURL, collection string, mode listing.Mode, req listing.PageRequest) string {
	keyword := ""
	if mode == listing.ModeSearch {
		keyword = strings.TrimSpace(req.Keyword)
	}

	h := sha256.New()
	for _, part := range []string{
		strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		strings.ToLower(strings.TrimSpace(collection)),
		mode.String(),
		strconv.Itoa(req.PageNumber),
		strconv.Itoa(req.PageSize),
		keyword,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
