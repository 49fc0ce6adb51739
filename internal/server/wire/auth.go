// Package wire encodes and decodes the two protocols spoken by the
// directory service.
//
// The auth protocol is one ASCII datagram each way. A request is
// verb#login#secret; the reply is a token, "ok" or "failed".
//
// The directory protocol runs over one TCP connection per command. The
// client writes the command name as a uvarint-length-prefixed string,
// followed by the command's arguments as little-endian int32 values or
// further strings. The server answers with a JSON document, or with the
// plain text of an error, and closes the connection.
package wire

import (
	"fmt"
	"strings"

	"github.com/Jan540/account-manager/internal/common"
)

const (
	Delimiter = "#"

	VerbLogin  = "login"
	VerbLogout = "logout"

	ReplyOK     = "ok"
	ReplyFailed = "failed"
)

// MaxDatagramSize bounds auth requests and replies.
const MaxDatagramSize = 4096

// AuthRequest is a decoded auth datagram. Secret holds the password hash on
// login and the session token on logout.
type AuthRequest struct {
	Verb   string
	Login  string
	Secret string
}

// ParseAuthRequest splits a datagram into its three fields. The verb is not
// checked here.
func ParseAuthRequest(b []byte) (AuthRequest, error) {
	parts := strings.Split(string(b), Delimiter)
	if len(parts) != 3 {
		return AuthRequest{}, fmt.Errorf("%w: expected 3 fields, got %d", common.ErrMalformedRequest, len(parts))
	}
	return AuthRequest{Verb: parts[0], Login: parts[1], Secret: parts[2]}, nil
}

// EncodeAuthRequest joins the fields. Fields containing the delimiter are
// rejected.
func EncodeAuthRequest(r AuthRequest) ([]byte, error) {
	for _, f := range []string{r.Verb, r.Login, r.Secret} {
		if strings.Contains(f, Delimiter) {
			return nil, fmt.Errorf("%w: field %q contains %q", common.ErrMalformedRequest, f, Delimiter)
		}
	}
	return []byte(r.Verb + Delimiter + r.Login + Delimiter + r.Secret), nil
}
