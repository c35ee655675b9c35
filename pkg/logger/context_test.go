package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestSetEchoPropagatesToRequestContext(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	l := zap.NewNop().With(zap.String("request_id", "abc"))
	SetEcho(c, l)

	assert.Same(t, l, FromEcho(c))
	assert.Same(t, l, FromContext(c.Request().Context()))
}
