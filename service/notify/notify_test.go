package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kuriosity/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecorder(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	recorder := NewRecorder(NewLogger(zap.New(core)))

	recorder.Notify(context.Background(), &model.Notification{
		TitleKey:  model.NotificationExperimentTriggered,
		Params:    []any{"Jebediah Kerman", "Kerbal X"},
		FirstLine: "Bugs",
		Timestamp: 3600,
	})

	require.Len(t, recorder.Notifications(), 1)
	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "Jebediah Kerman, Kerbal X", fields["params"])
	assert.Equal(t, "Bugs", fields["firstLine"])
	assert.Equal(t, model.NotificationExperimentTriggered, fields["title"])
}
