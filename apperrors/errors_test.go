package apperrors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(ErrChallengeNotFound))
	assert.Equal(t, CodeConflict, CodeOf(fmt.Errorf("accept: %w", ErrChallengeNotPending)))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("connection reset")))
	assert.True(t, Is(ErrSelfChallenge, CodeValidation))
	assert.False(t, Is(nil, CodeValidation))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("timeout")
	err := Internal("challengeService.Create.Insert", cause)

	assert.Equal(t, "challengeService.Create.Insert: timeout", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   400,
		CodeConflict:     400,
		CodeInvalidState: 400,
		CodeNotFound:     404,
		CodeInternal:     500,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), code)
	}
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "challenge not found", MessageOf(Wrap(CodeNotFound, "challenge not found", errors.New("record not found"))))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
}
