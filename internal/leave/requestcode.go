package leave

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// newRequestCode returns a 16 character uppercase hex identifier used as the
// human facing reference of a request.
func newRequestCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(buf)), nil
}
