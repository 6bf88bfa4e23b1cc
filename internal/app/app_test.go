package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCloseResources_ReverseOrder(t *testing.T) {
	app := &App{logger: zap.NewNop()}

	var closed []string
	app.cleanup = append(app.cleanup,
		func() { closed = append(closed, "pool") },
		func() { closed = append(closed, "redis") },
	)

	app.closeResources()
	assert.Equal(t, []string{"redis", "pool"}, closed)
}

func TestCloseResources_EmptyIsNoop(t *testing.T) {
	app := &App{logger: zap.NewNop()}
	app.closeResources()
	assert.Empty(t, app.cleanup)
}
