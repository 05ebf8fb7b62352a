package eventkit_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/randalmurphal/eventkit/pkg/eventkit"
	"github.com/stretchr/testify/assert"
)

func TestBindError_Message(t *testing.T) {
	err := &eventkit.BindError{
		TypeName: "chat.message",
		Want:     reflect.TypeOf(&eventkit.Base{}),
		Got:      reflect.TypeOf("oops"),
		Err:      eventkit.ErrPayloadKind,
	}

	msg := err.Error()
	assert.Contains(t, msg, "chat.message")
	assert.Contains(t, msg, "*eventkit.Base")
	assert.Contains(t, msg, "string")
	assert.ErrorIs(t, err, eventkit.ErrPayloadKind)
}

func TestBindError_MessageWithoutKinds(t *testing.T) {
	err := &eventkit.BindError{TypeName: "x", Err: eventkit.ErrForeignEvent}
	assert.Contains(t, err.Error(), "not created for this type")
}

func TestDispatchError_Message(t *testing.T) {
	cause := errors.New("root cause")
	err := &eventkit.DispatchError{TypeName: "user.joined", Err: cause}

	assert.Contains(t, err.Error(), "user.joined")
	assert.Contains(t, err.Error(), "root cause")
	assert.ErrorIs(t, err, cause)

	err.Suppressed = append(err.Suppressed, errors.New("later"), errors.New("even later"))
	assert.Contains(t, err.Error(), "2 suppressed")
}
