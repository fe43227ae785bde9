// Package api is the DocCare REST client.
//
// Every request carries an X-Request-ID. Non-2xx responses and bodies with
// "success": false become *Error carrying the server's message. Transport
// failures wrap ErrUnavailable.
package api
