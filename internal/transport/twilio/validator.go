package twilio

import (
	"net/http"
	"strings"

	"github.com/twilio/twilio-go/client"
)

// SignatureHeader carries Twilio's request signature.
const SignatureHeader = "X-Twilio-Signature"

// Validator checks that webhook requests were signed by Twilio.
type Validator struct {
	rv      client.RequestValidator
	baseURL string
}

// NewValidator signs against baseURL (the public URL Twilio calls) when set,
// otherwise against the request's own host.
func NewValidator(authToken, baseURL string) *Validator {
	return &Validator{
		rv:      client.NewRequestValidator(authToken),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Valid reports whether r carries a correct signature. r.ParseForm must have
// been called.
func (v *Validator) Valid(r *http.Request) bool {
	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return false
	}
	params := make(map[string]string, len(r.PostForm))
	for k, vals := range r.PostForm {
		if len(vals) > 0 {
			params[k] = vals[0]
		}
	}
	return v.rv.Validate(v.requestURL(r), params, signature)
}

func (v *Validator) requestURL(r *http.Request) string {
	if v.baseURL != "" {
		return v.baseURL + r.URL.RequestURI()
	}
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
