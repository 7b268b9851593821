package tinyweb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sagarc03/tinyweb"
)

func TestErrorState_StatusLine(t *testing.T) {
	tests := []struct {
		State tinyweb.ErrorState
		Want  string
	}{
		{State: tinyweb.StateNone, Want: ""},
		{State: tinyweb.StateReadTimeout, Want: ""},
		{State: tinyweb.StateBadRequest, Want: "400 Bad Request"},
		{State: tinyweb.StateMethodNotAllowed, Want: "405 Method Not Allowed"},
		{State: tinyweb.StateNotAcceptable, Want: "406 Not Acceptable"},
		{State: tinyweb.StateConflict, Want: "409 Conflict"},
		{State: tinyweb.StateNotFound, Want: "404 Not Found"},
		{State: tinyweb.StateInternalServerError, Want: "500 Internal Server Error"},
		{State: tinyweb.ErrorState(99), Want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.State.String(), func(t *testing.T) {
			assert.Equal(t, tt.Want, tt.State.StatusLine())
		})
	}
}

func TestErrorState_String(t *testing.T) {
	assert.Equal(t, "read timeout", tinyweb.StateReadTimeout.String())
	assert.Equal(t, "ErrorState(99)", tinyweb.ErrorState(99).String())
}

func TestResponseType(t *testing.T) {
	assert.Equal(t, "application/json", tinyweb.ResponseJSON.ContentType())
	assert.Equal(t, "text/plain", tinyweb.ResponseText.ContentType())
	assert.Equal(t, "", tinyweb.ResponseEmpty.ContentType())
	assert.Equal(t, "", tinyweb.ResponseType(7).ContentType())

	assert.Equal(t, "json", tinyweb.ResponseJSON.String())
	assert.Equal(t, "ResponseType(7)", tinyweb.ResponseType(7).String())
}

func TestUsage_Free(t *testing.T) {
	assert.Equal(t, int64(6), tinyweb.Usage{Total: 10, Used: 4}.Free())
	assert.Equal(t, int64(0), tinyweb.Usage{Total: 10, Used: 12}.Free())
}
