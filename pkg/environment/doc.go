// Package environment names the deployment environment the gateway runs in.
//
// Parse turns the raw APP_ENV value into one of Development, Staging or
// Production; unknown values fall back to Development. The binary uses the
// result to pick logger presets and attaches it to every request with
// Middleware so handlers can call IsDevelopment(ctx) for debug-only output.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
package environment
