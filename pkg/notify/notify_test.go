package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewFallsBackToNoop(t *testing.T) {
	n := New("", "relatorios@example.com", "Vistorias", zap.NewNop())
	assert.IsType(t, Noop{}, n)
	assert.NoError(t, n.Send(context.Background(), Message{To: []Recipient{{Email: "a@example.com"}}}))

	n = New("SG.key", "", "Vistorias", zap.NewNop())
	assert.IsType(t, Noop{}, n)

	n = New("SG.key", "relatorios@example.com", "Vistorias", zap.NewNop())
	assert.IsType(t, &SendGrid{}, n)
}
