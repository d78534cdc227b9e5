package errors

import (
	"errors"
	"fmt"
)

// RemoteFailure is implemented by errors carrying upstream HTTP context.
type RemoteFailure interface {
	HTTPStatus() int
	Endpoint() string
	BodySnippet() string
}

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	UpstreamStatus   int    `json:"upstream_status,omitempty"`
	UpstreamEndpoint string `json:"upstream_endpoint,omitempty"`
	UpstreamBody     string `json:"upstream_body,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var remote RemoteFailure
	if errors.As(err, &remote) {
		d.UpstreamStatus = remote.HTTPStatus()
		d.UpstreamEndpoint = remote.Endpoint()
		d.UpstreamBody = remote.BodySnippet()
	}

	return d
}
