package utils // package utils provides helpers for minting staff access tokens

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// AccessToken is a signed HS256 JWT together with its expiry.  Production
// tokens come from the hotel's auth service; this helper mints tokens with
// the same claims for local runs and tests.
type AccessToken struct {
    Token string
    Exp   time.Time
}

// NewStaffToken signs a token whose subject is staffID and whose role claim
// is role (ADMIN or FRONT_DESK).  The subject is what audit logs record as
// the acting user.
func NewStaffToken(secret, staffID, role string, ttl time.Duration) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("empty signing secret")
    }
    if staffID == "" {
        return AccessToken{}, errors.New("empty staff id")
    }
    now := time.Now().UTC()
    exp := now.Add(ttl)
    claims := jwt.MapClaims{
        "sub":  staffID,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
