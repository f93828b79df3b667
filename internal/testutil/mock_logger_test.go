package testutil_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/internal/testutil"
)

func TestMockLogger(t *testing.T) {
	logger := testutil.NewMockLogger()

	logger.Info("test info", logging.String("key", "value"))

	messages := logger.GetMessages()
	assert.Len(t, messages, 1)
	assert.Equal(t, "info", messages[0].Level)
	assert.Equal(t, "test info", messages[0].Message)

	logger.Clear()
	assert.Len(t, logger.GetMessages(), 0)

	logger.Error("test error")
	assert.True(t, logger.HasMessage("error", "test error"))
	assert.False(t, logger.HasMessage("info", "test info"))
}

func TestMockLogger_ChildrenShareRecord(t *testing.T) {
	logger := testutil.NewMockLogger()
	child := logger.Named("http").With(logging.String("request_id", "r1"))

	child.Warn("slow request", logging.Int("status", 200))

	msgs := logger.GetMessages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "http", msgs[0].Logger)
	v, ok := logger.Field("slow request", "request_id")
	assert.True(t, ok)
	assert.Equal(t, "r1", v)
}

func TestFakeGateway(t *testing.T) {
	g, fake := testutil.NewFakeGateway()

	props, err := g.PredictProperties(context.Background(), composition.Composition{"Fe": 100}, material.DefaultConditions())
	require.NoError(t, err)
	assert.Equal(t, 520.0, material.Value(props.Mechanical.TensileStrength))

	recs, err := g.Recommend(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, 2, fake.Calls())
}
