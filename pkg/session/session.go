package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"inbox-service/pkg/config"
)

// CookieName is the session cookie written on login.
const CookieName = "dx888_session"

const payloadVersion = 1

// Session is the full session state: nothing is stored server-side, the
// signed cookie value is the session.
type Session struct {
	UserID   uint
	Role     string
	TenantID *uint
}

// payload is the wire shape inside the cookie value.
type payload struct {
	V    int    `json:"v"`
	UID  uint   `json:"uid"`
	Role string `json:"role"`
	TID  *uint  `json:"tid"`
	Exp  int64  `json:"exp"`
}

var (
	secret []byte
	ttl    time.Duration
	secure bool
)

// Initialize configures the codec from the loaded configuration.
func Initialize(cfg *config.Config) {
	secret = []byte(cfg.Secrets.SessionSecret)
	ttl = cfg.Session.TTL
	secure = cfg.Server.Env == "production"
}

// Issue encodes a session into a signed cookie value with a fresh expiry of
// now + the configured TTL.
func Issue(s Session) string {
	return issueAt(s, time.Now())
}

func issueAt(s Session, now time.Time) string {
	p := payload{
		V:    payloadVersion,
		UID:  s.UserID,
		Role: s.Role,
		TID:  s.TenantID,
		Exp:  now.Add(ttl).Unix(),
	}
	// payload holds only scalar fields; Marshal cannot fail on it.
	raw, _ := json.Marshal(p)
	payloadB64 := base64.RawURLEncoding.EncodeToString(raw)
	return payloadB64 + "." + sign(payloadB64)
}

// Parse validates a cookie value and returns the embedded session. Any
// failure (missing segment, bad signature, malformed payload, unknown
// version or role, past expiry) yields ok == false, never an error.
func Parse(value string) (Session, bool) {
	return parseAt(value, time.Now())
}

func parseAt(value string, now time.Time) (Session, bool) {
	payloadB64, sigB64, found := splitToken(value)
	if !found {
		return Session{}, false
	}

	expected := sign(payloadB64)
	if len(expected) != len(sigB64) {
		return Session{}, false
	}
	if !hmac.Equal([]byte(expected), []byte(sigB64)) {
		return Session{}, false
	}

	raw, err := base64.RawURLEncoding.DecodeString(payloadB64)
	if err != nil {
		return Session{}, false
	}
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Session{}, false
	}
	if p.V != payloadVersion {
		return Session{}, false
	}
	if p.Role != "admin" && p.Role != "user" {
		return Session{}, false
	}
	if p.Exp <= now.Unix() {
		return Session{}, false
	}

	return Session{UserID: p.UID, Role: p.Role, TenantID: p.TID}, true
}

// FromRequest reads and validates the session cookie on the request.
func FromRequest(c echo.Context) (Session, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	return Parse(cookie.Value)
}

// SetCookie issues a session and writes the cookie on the response.
func SetCookie(c echo.Context, s Session) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    Issue(s),
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie overwrites the session cookie with an immediately expired
// empty value. There is no server-side revocation: a previously issued
// token stays valid until its embedded expiry.
func ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func sign(payloadB64 string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payloadB64))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func splitToken(value string) (payloadB64, sigB64 string, ok bool) {
	for i := 0; i < len(value); i++ {
		if value[i] == '.' {
			payloadB64, sigB64 = value[:i], value[i+1:]
			// Exactly two segments: a second dot invalidates the token.
			for j := i + 1; j < len(value); j++ {
				if value[j] == '.' {
					return "", "", false
				}
			}
			return payloadB64, sigB64, payloadB64 != "" && sigB64 != ""
		}
	}
	return "", "", false
}
