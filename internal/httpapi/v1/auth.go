package v1

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tinoosan/fanbase/internal/action"
	"github.com/tinoosan/fanbase/internal/errs"
)

// ActorHeader carries a pre-authenticated user id from a trusted gateway.
const ActorHeader = "X-Actor-ID"

// Auth resolves the actor of a request. With no Secret bearer tokens are
// rejected and only a trusted header can name an actor.
type Auth struct {
	Secret   string
	Issuer   string
	Audience string
	// TrustActorHeader accepts ActorHeader as the actor. Only enable behind a
	// gateway that strips it from client traffic.
	TrustActorHeader bool
}

type JWTClaims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  any    `json:"aud,omitempty"` // string or []string
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

func parseBearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") && !strings.HasPrefix(h, "bearer ") {
		return "", false
	}
	return strings.TrimSpace(h[len("Bearer "):]), true
}

func base64URLDecode(s string) ([]byte, error) {
	// JWT uses base64url without padding
	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}
	return base64.URLEncoding.DecodeString(s)
}

func verifyHS256(token, secret string) (JWTClaims, error) {
	var empty JWTClaims
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return empty, errors.New("invalid token format")
	}
	headerB, err := base64URLDecode(parts[0])
	if err != nil {
		return empty, errors.New("bad header b64")
	}
	payloadB, err := base64URLDecode(parts[1])
	if err != nil {
		return empty, errors.New("bad payload b64")
	}
	sigB, err := base64URLDecode(parts[2])
	if err != nil {
		return empty, errors.New("bad signature b64")
	}

	var hdr struct{ Alg, Typ string }
	if err := json.Unmarshal(headerB, &hdr); err != nil {
		return empty, errors.New("bad header json")
	}
	if !strings.EqualFold(hdr.Alg, "HS256") {
		return empty, errors.New("unsupported alg")
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(parts[0] + "." + parts[1]))
	if !hmac.Equal(sigB, mac.Sum(nil)) {
		return empty, errors.New("invalid signature")
	}

	var claims JWTClaims
	if err := json.Unmarshal(payloadB, &claims); err != nil {
		return empty, errors.New("bad claims json")
	}
	return claims, nil
}

func audContains(aud any, expected string) bool {
	if expected == "" {
		return true
	}
	switch v := aud.(type) {
	case string:
		return strings.EqualFold(v, expected)
	case []any:
		for _, it := range v {
			if s, ok := it.(string); ok && strings.EqualFold(s, expected) {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if strings.EqualFold(s, expected) {
				return true
			}
		}
	}
	return false
}

// actor validates a bearer token and returns its subject.
func (a Auth) actor(token string, now time.Time) (string, error) {
	if a.Secret == "" {
		return "", errors.New("bearer tokens not accepted")
	}
	claims, err := verifyHS256(token, a.Secret)
	if err != nil {
		return "", err
	}
	unix := now.Unix()
	switch {
	case claims.NotBefore != 0 && unix < claims.NotBefore:
		return "", errors.New("token not yet valid")
	case claims.ExpiresAt != 0 && unix >= claims.ExpiresAt:
		return "", errors.New("token expired")
	case a.Issuer != "" && !strings.EqualFold(claims.Issuer, a.Issuer):
		return "", errors.New("issuer mismatch")
	case !audContains(claims.Audience, a.Audience):
		return "", errors.New("audience mismatch")
	case strings.TrimSpace(claims.Subject) == "":
		return "", errors.New("missing subject")
	}
	return claims.Subject, nil
}

// middleware attaches the actor to the request context. Requests without
// credentials pass through anonymously; the action layer decides whether
// that is enough.
func (a Auth) middleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tok, ok := parseBearerToken(r); ok {
				sub, err := a.actor(tok, time.Now())
				if err != nil {
					l.Debug("bearer rejected", "err", err)
					writeFailure(w, errs.KindNotAuthenticated, "invalid token")
					return
				}
				next.ServeHTTP(w, r.WithContext(action.WithActor(r.Context(), sub)))
				return
			}
			if a.TrustActorHeader {
				if id := strings.TrimSpace(r.Header.Get(ActorHeader)); id != "" {
					next.ServeHTTP(w, r.WithContext(action.WithActor(r.Context(), id)))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
