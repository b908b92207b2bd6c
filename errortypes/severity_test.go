package errortypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWarning(t *testing.T) {
	assert.True(t, IsWarning(&Warning{Message: "w"}))
	assert.True(t, IsWarning(&FailedToTrack{Message: "t"}))
	assert.False(t, IsWarning(&BadInput{Message: "b"}))
	assert.False(t, IsWarning(errors.New("plain")))
}

func TestFatalOnly(t *testing.T) {
	fatal := &BadServerResponse{Message: "fatal"}
	plain := errors.New("plain")
	errs := []error{&Warning{Message: "w"}, fatal, plain}

	assert.Equal(t, []error{fatal, plain}, FatalOnly(errs))
	assert.True(t, ContainsFatalError(errs))
	assert.False(t, ContainsFatalError([]error{&Warning{Message: "w"}}))
}

func TestReadCode(t *testing.T) {
	assert.Equal(t, BadInputErrorCode, ReadCode(&BadInput{}))
	assert.Equal(t, FailedToTrackWarningCode, ReadCode(&FailedToTrack{}))
	assert.Equal(t, EmptyResponseWarningCode, ReadCode(&Warning{WarningCode: EmptyResponseWarningCode}))
	assert.Equal(t, UnknownErrorCode, ReadCode(errors.New("plain")))
}

func TestAggregateErrors(t *testing.T) {
	assert.Equal(t, "", NewAggregateErrors("none", nil).Error())
	assert.Equal(t, "build failed (1 error):\n  1: one\n", NewAggregateErrors("build failed", []error{errors.New("one")}).Error())
	assert.Equal(t, "build failed (2 errors):\n  1: one\n  2: two\n", NewAggregateErrors("build failed", []error{errors.New("one"), errors.New("two")}).Error())
}

func TestAggregateErrorsUnwrap(t *testing.T) {
	cause := &BadInput{Message: "adapters.oms.endpoint must be a URL"}
	err := error(NewAggregateErrors("validation errors", []error{errors.New("other"), cause}))

	var badInput *BadInput
	assert.True(t, errors.As(err, &badInput))
	assert.Same(t, cause, badInput)
}
