package mailhog

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/rpkamp/mailhog-client-go/internal/api"
)

var validate = validator.New()

// releaseTarget describes the SMTP destination of a release.
type releaseTarget struct {
	Host  string `validate:"required"`
	Port  int    `validate:"min=1,max=65535"`
	Email string `validate:"required"`
}

func (t releaseTarget) validate() error {
	err := validate.Struct(t)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err //coverage:ignore
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return &ValidationError{Errors: msgs}
}

// ReleaseMessage asks the server to forward a message to the SMTP server at
// host:port, addressed to emailAddress. The port is sent string encoded.
func (c *Client) ReleaseMessage(ctx context.Context, messageID, host string, port int, emailAddress string) error {
	target := releaseTarget{Host: host, Port: port, Email: emailAddress}
	if err := target.validate(); err != nil {
		return err
	}

	err := c.apiClient.ReleaseMessage(ctx, messageID, api.NewReleaseRequest(host, port, emailAddress))

	var encErr *api.EncodeError
	if errors.As(err, &encErr) {
		return &EncodingError{MessageID: messageID, Err: encErr.Err} //coverage:ignore
	}
	return wrapError(err)
}
