package social

import "net/url"

const genericRedirectError = "oauth failed during redirect"

// Callback carries the query parameters a provider sends back to the
// redirect endpoint. Providers disagree on which error field they
// populate, so all the observed variants are kept.
type Callback struct {
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
	ErrorReason      string
}

// CallbackFromQuery extracts the callback parameters from a parsed
// query string.
func CallbackFromQuery(values url.Values) Callback {
	return Callback{
		Code:             values.Get("code"),
		State:            values.Get("state"),
		ErrorCode:        values.Get("error"),
		ErrorDescription: values.Get("error_description"),
		ErrorReason:      values.Get("error_reason"),
	}
}

// ErrorMessage returns the most specific error message the provider
// supplied on the redirect, falling back to a generic one.
func (c Callback) ErrorMessage() string {
	switch {
	case c.ErrorDescription != "":
		return c.ErrorDescription
	case c.ErrorReason != "":
		return c.ErrorReason
	case c.ErrorCode != "":
		return c.ErrorCode
	default:
		return genericRedirectError
	}
}
