package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

const sessionCookieName = "session"

type sessionIDKey struct{}

// sessionCodec issues and verifies signed session cookies. The cookie carries only an opaque session ID;
// conversation history lives in the server-side history store
type sessionCodec struct {
	codec *securecookie.SecureCookie
}

func newSessionCodec(secret string) (*sessionCodec, error) {
	key := []byte(secret)
	if secret == "" {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, fmt.Errorf("failed to generate session signing key")
		}
		log.Println("SESSION_SECRET not set, using a random key; sessions will not survive a restart")
	}
	codec := securecookie.New(key, nil)
	// The cookie lives for the browser session; the signature itself does not expire
	codec.MaxAge(0)
	return &sessionCodec{codec: codec}, nil
}

// middleware attaches a session ID to every request, issuing a new signed cookie when the request has none or
// carries one that fails verification
func (sc *sessionCodec) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sessionID string
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if err := sc.codec.Decode(sessionCookieName, cookie.Value, &sessionID); err != nil {
				sessionID = ""
			}
		}

		if sessionID == "" {
			sessionID = uuid.NewString()
			encoded, err := sc.codec.Encode(sessionCookieName, sessionID)
			if err != nil {
				log.Printf("Failed to encode session cookie: %v", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    encoded,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID returns the session ID attached by the session middleware, or "" if there is none
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
