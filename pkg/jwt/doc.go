// Package jwt verifies HS256 JSON Web Tokens issued by the hosted auth
// provider and can mint tokens for tests.
//
// Parse rejects any algorithm other than HS256, compares signatures in
// constant time and then runs ValidAt on claim types implementing Validator
// using the service clock, which WithClock replaces in tests. WithAudience
// additionally requires the "aud" claim of types embedding StandardClaims.
//
//	svc, _ := jwt.New(secret, jwt.WithAudience("authenticated"))
//
//	var claims struct {
//		jwt.StandardClaims
//		Email string `json:"email"`
//	}
//	token, err := jwt.FirstOf(jwt.FromCookie("sb-access-token"), jwt.FromBearer)(r)
//	err = svc.Parse(token, &claims)
package jwt
