// Package jwt decodes the bearer token issued by the DocCare API into its claim
// set. By default it decodes without verifying the signature, because the
// client holds no key; verification is opt-in when key material is configured.
// Expiry is never judged here.
package jwt
