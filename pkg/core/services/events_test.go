package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/gradingcommander/internal/config"
	"github.com/jakechorley/gradingcommander/pkg/core/deadline"
)

func eventsConfig(t *testing.T) *config.Config {
	return &config.Config{
		Course:      "cs15",
		DatabaseURL: "postgres://localhost/grading",
		GradableEvents: []config.GradableEvent{
			{Name: "Clock", Deadline: clockPolicy(t)},
		},
		EventSeries: []config.EventSeries{
			{
				NamePrefix: "Lab",
				RRule:      "DTSTART:20240902T235959Z\nRRULE:FREQ=WEEKLY;COUNT=2",
				Deadline: deadline.Template{
					Type:             deadline.TypeVariable,
					LateAfter:        "48h",
					LatePeriod:       &deadline.PeriodConfig{Days: 1},
					LatePeriodPoints: ptr(-2.0),
				},
			},
		},
	}
}

func TestExpandEvents_ExplicitThenSeries(t *testing.T) {
	events, err := ExpandEvents(eventsConfig(t))

	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Clock", events[0].Name)
	assert.Equal(t, "Lab 1", events[1].Name)
	assert.Equal(t, "Lab 2", events[2].Name)

	assert.Equal(t, deadline.TypeVariable, events[2].Deadline.Type())
	assert.Equal(t, time.Date(2024, 9, 9, 23, 59, 59, 0, time.UTC), events[2].Deadline.OnTime().UTC())
	v, ok := events[2].Deadline.Variable()
	require.True(t, ok)
	require.NotNil(t, v.Late)
	assert.Equal(t, time.Date(2024, 9, 11, 23, 59, 59, 0, time.UTC), v.Late.UTC())
}

func TestExpandEvents_NameClash(t *testing.T) {
	cfg := eventsConfig(t)
	cfg.GradableEvents = append(cfg.GradableEvents, config.GradableEvent{Name: "Lab 2"})

	_, err := ExpandEvents(cfg)
	assert.ErrorContains(t, err, `"Lab 2" is declared more than once`)
}

func TestDefineEvents_UpsertsAndKeepsIDs(t *testing.T) {
	store := newMemStore()
	cfg := eventsConfig(t)

	first, err := DefineEvents(context.Background(), store, cfg, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, first, 3)
	assert.Len(t, store.events, 3)

	second, err := DefineEvents(context.Background(), store, cfg, zap.NewNop())
	require.NoError(t, err)

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Equal(t, deadline.TypeFixed, store.events["Clock"].Deadline.Type())
}
