package progrock_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	vprogrock "github.com/vito/progrock"
	"go.trai.ch/signet/internal/adapters/telemetry/progrock"
	"go.trai.ch/signet/internal/core/domain"
	"go.trai.ch/signet/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func TestRecorder_RecordsModules(t *testing.T) {
	recorder := progrock.New(nil)

	_, vertex := recorder.Record(context.Background(), "sign bin/App.dll")
	_, err := vertex.Stdout().Write([]byte("public key token b77a5c561934e089\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelDebug, "reference retargeted")
	vertex.Complete(nil)

	assert.Equal(t, progrock.Summary{Done: 1}, recorder.Summary())
	require.NoError(t, recorder.Close())
}

func TestRecorder_CachedAndFailed(t *testing.T) {
	recorder := progrock.NewRecorder(vprogrock.NewTape(), nil)

	_, unchanged := recorder.Record(context.Background(), "sign lib/Base.dll")
	unchanged.Cached()
	unchanged.Complete(nil)

	_, failed := recorder.Record(context.Background(), "sign lib/Core.dll")
	failed.Log(domain.LogLevelWarn, "unreadable module format")
	failed.Complete(domain.ErrUnreadableFormat)
	failed.Complete(nil)

	// The same module recorded twice in one run gets a second vertex.
	_, again := recorder.Record(context.Background(), "sign lib/Base.dll")
	again.Complete(nil)

	assert.Equal(t, progrock.Summary{Done: 1, Failed: 1, Cached: 1}, recorder.Summary())
	require.NoError(t, recorder.Close())
}

func TestRecorder_CloseLogsSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug("progress recorded: 0 done, 1 failed, 0 unchanged")

	recorder := progrock.New(log)
	_, vertex := recorder.Record(context.Background(), "fix bin/App.dll")
	vertex.Complete(domain.ErrIO)

	require.NoError(t, recorder.Close())
}
