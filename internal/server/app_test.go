package server

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_RefusesToStartWithoutSecret(t *testing.T) {
	var c config.Config
	c.LoadDefaults()

	app, err := NewApp(context.Background(), &c)
	require.Error(t, err)
	assert.Nil(t, app)
	assert.Contains(t, err.Error(), "secret key")
}

func TestNewApp_RejectsBadDuration(t *testing.T) {
	var c config.Config
	c.LoadDefaults()
	c.SecretKey = "k"
	c.SessionDuration = -1

	_, err := NewApp(context.Background(), &c)
	require.Error(t, err)
}

type closeRecorder struct {
	closed bool
	err    error
}

func (p *closeRecorder) Publish(context.Context, string, any) error { return nil }
func (p *closeRecorder) Close() error {
	p.closed = true
	return p.err
}

func TestApp_CloseReleasesEverything(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	pub := &closeRecorder{err: errors.New("already closed")}
	traced := false

	app := &App{
		logger:    logging.Nop{},
		db:        db,
		publisher: pub,
		shutdownTracing: func(context.Context) error {
			traced = true
			return nil
		},
	}
	app.close()

	assert.True(t, traced)
	assert.True(t, pub.closed)
	require.NoError(t, mock.ExpectationsWereMet())
}
