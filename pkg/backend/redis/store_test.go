package redis

import (
	"errors"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

func TestNew_Options(t *testing.T) {
	_, err := New()
	assert.True(t, errors.Is(err, sentinel.ErrParamCannotBeEmpty))

	_, err = New(WithAddr("localhost"))
	assert.True(t, err != nil)

	store, err := New(
		WithAddr(" localhost:6379 "),
		WithCredentials("user", "secret"),
		WithDB(2),
		WithTimeouts(time.Second, 2*time.Second, 3*time.Second),
	)
	assert.NoError(t, err)

	defer func() { _ = store.Close() }()

	opt := store.Client.Options()
	assert.Equal(t, "localhost:6379", opt.Addr)
	assert.Equal(t, "user", opt.Username)
	assert.Equal(t, 2, opt.DB)
	assert.Equal(t, 2*time.Second, opt.ReadTimeout)
}
