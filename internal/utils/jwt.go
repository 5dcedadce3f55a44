package utils // package utils provides token issuing, parsing and hashing helpers

import (
    "crypto/rand"   // secure random bytes for refresh token IDs
    "crypto/sha256" // SHA-256 hashing of refresh tokens for the blacklist
    "encoding/hex"  // hex encoding of hashes and random IDs
    "errors"        // sentinel error values
    "time"          // expiry calculations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and verifying signed tokens
)

// Token type claim values. Access tokens authorize API calls for a few
// minutes; refresh tokens mint new access tokens for days until revoked.
const (
    TypeAccess  = "access"
    TypeRefresh = "refresh"
)

var (
    // ErrTokenExpired is returned when a structurally valid token is past its exp claim.
    ErrTokenExpired = errors.New("token expired")
    // ErrTokenInvalid is returned for malformed, tampered or wrong-type tokens.
    ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the decoded identity carried by a verified token.
type Claims struct {
    UserID    uint64    // subject of the token
    Email     string    // email claim, present on access tokens only
    ExpiresAt time.Time // exp claim, used when recording revocations
}

// AccessToken bundles a signed JWT access token with its expiry.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// RefreshToken bundles a signed JWT refresh token with its expiry. The
// token carries the user identity itself; only a SHA-256 hash of the
// string is ever stored server-side (in the revocation blacklist).
type RefreshToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. Claims are the
// subject (sub), email, token type (typ), expiration (exp) and issued-at
// (iat). Any mutation of the serialized token invalidates the signature.
func NewAccessToken(secret string, userID uint64, email string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":   userID,
        "email": email,
        "typ":   TypeAccess,
        "exp":   exp.Unix(),
        "iat":   now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken builds and signs an HS256 refresh JWT. The jti claim is
// random so two refresh tokens issued in the same second still differ.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (RefreshToken, error) {
    jti, err := randomHex(16)
    if err != nil {
        return RefreshToken{}, err
    }
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlDays) * 24 * time.Hour)
    claims := jwt.MapClaims{
        "sub": userID,
        "typ": TypeRefresh,
        "jti": jti,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return RefreshToken{}, err
    }
    return RefreshToken{Token: signed, Exp: exp}, nil
}

// ParseAccess verifies an access token and returns the embedded identity.
// Expired tokens yield ErrTokenExpired; anything else wrong (bad signature,
// malformed string, refresh token passed where an access token is expected)
// yields ErrTokenInvalid.
func ParseAccess(secret, raw string) (Claims, error) {
    return parse(secret, raw, TypeAccess)
}

// ParseRefresh verifies a refresh token and returns the embedded identity.
// The blacklist check is the caller's responsibility; this function only
// proves the token is genuine and unexpired.
func ParseRefresh(secret, raw string) (Claims, error) {
    return parse(secret, raw, TypeRefresh)
}

func parse(secret, raw, wantTyp string) (Claims, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Only HMAC is ever used for signing; reject other algorithms.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return Claims{}, ErrTokenExpired
        }
        return Claims{}, ErrTokenInvalid
    }
    if !tok.Valid {
        return Claims{}, ErrTokenInvalid
    }
    mc, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return Claims{}, ErrTokenInvalid
    }
    if typ, _ := mc["typ"].(string); typ != wantTyp {
        return Claims{}, ErrTokenInvalid
    }
    var c Claims
    switch sub := mc["sub"].(type) {
    case float64: // JSON numbers decode as float64
        c.UserID = uint64(sub)
    default:
        return Claims{}, ErrTokenInvalid
    }
    if c.UserID == 0 {
        return Claims{}, ErrTokenInvalid
    }
    if email, ok := mc["email"].(string); ok {
        c.Email = email
    }
    if exp, ok := mc["exp"].(float64); ok {
        c.ExpiresAt = time.Unix(int64(exp), 0).UTC()
    }
    return c, nil
}

// HashRefreshRaw returns the SHA-256 hash of a refresh token string as hex.
// The blacklist stores only this hash, so a leaked blacklist table cannot
// be replayed as live tokens.
func HashRefreshRaw(raw string) string {
    sum := sha256.Sum256([]byte(raw))
    return hex.EncodeToString(sum[:])
}

// randomHex returns a hex string built from n bytes of secure random data.
func randomHex(n int) (string, error) {
    buf := make([]byte, n)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    return hex.EncodeToString(buf), nil
}
