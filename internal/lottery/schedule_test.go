package lottery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaw8386/server/internal/config"
	"github.com/shaw8386/server/internal/domain"
)

func newTestDrawConfig(t *testing.T) *config.DrawConfig {
	t.Helper()

	conf, err := config.NewDrawConfig("Asia/Ho_Chi_Minh", map[string]config.PublishTime{
		"north":   {Hour: 18, Minute: 35},
		"central": {Hour: 17, Minute: 35},
		"south":   {Hour: 16, Minute: 35},
	})
	require.NoError(t, err)

	return conf
}

func TestSchedule_RegionPublishTimes(t *testing.T) {
	conf := newTestDrawConfig(t)
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, conf.Location())

	tests := []struct {
		region     domain.Region
		wantHour   int
		wantMinute int
	}{
		{domain.RegionNorth, 18, 35},
		{domain.RegionCentral, 17, 35},
		{domain.RegionSouth, 16, 35},
	}

	for _, tt := range tests {
		t.Run(string(tt.region), func(t *testing.T) {
			got, err := Schedule(conf, tt.region, "2024-05-10", now)
			require.NoError(t, err)

			assert.Equal(t, tt.wantHour, got.ScheduledTime.Hour())
			assert.Equal(t, tt.wantMinute, got.ScheduledTime.Minute())
			assert.Equal(t, 10, got.ScheduledTime.Day())
			assert.True(t, got.Delay > 0)
			assert.False(t, got.Due())
		})
	}
}

func TestSchedule_Deterministic(t *testing.T) {
	conf := newTestDrawConfig(t)
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, conf.Location())

	first, err := Schedule(conf, domain.RegionNorth, "2024-05-10", now)
	require.NoError(t, err)
	second, err := Schedule(conf, domain.RegionNorth, "2024-05-10", now)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSchedule_PastBuyDateIsDue(t *testing.T) {
	conf := newTestDrawConfig(t)
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, conf.Location())

	got, err := Schedule(conf, domain.RegionNorth, "2024-05-09", now)
	require.NoError(t, err)

	assert.True(t, got.Due())
	assert.True(t, got.Delay < 0)
	assert.Equal(t, FloorDelay, got.EffectiveDelay())
}

func TestSchedule_TodayPastPublishTimeIsDue(t *testing.T) {
	conf := newTestDrawConfig(t)
	now := time.Date(2024, 5, 10, 19, 0, 0, 0, conf.Location())

	got, err := Schedule(conf, domain.RegionNorth, "2024-05-10", now)
	require.NoError(t, err)

	assert.True(t, got.Due())
	assert.Equal(t, FloorDelay, got.EffectiveDelay())
}

func TestSchedule_FutureBuyDateIsDateAnchored(t *testing.T) {
	conf := newTestDrawConfig(t)
	// 19:00 is past today's 18:35 publish; a ticket for next week must
	// still anchor on its own date, not on tomorrow's publish time.
	now := time.Date(2024, 5, 10, 19, 0, 0, 0, conf.Location())

	got, err := Schedule(conf, domain.RegionNorth, "2024-05-17", now)
	require.NoError(t, err)

	want := time.Date(2024, 5, 17, 18, 35, 0, 0, conf.Location())
	assert.Equal(t, want, got.ScheduledTime)
	assert.False(t, got.Due())
	assert.Equal(t, want.Sub(now), got.EffectiveDelay())
}

func TestSchedule_UnknownRegion(t *testing.T) {
	conf := newTestDrawConfig(t)
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, conf.Location())

	_, err := Schedule(conf, domain.Region("east"), "2024-05-10", now)
	assert.ErrorIs(t, err, ErrUnknownRegion)
}

func TestSchedule_BadBuyDate(t *testing.T) {
	conf := newTestDrawConfig(t)

	_, err := Schedule(conf, domain.RegionNorth, "10/05/2024", time.Now())
	assert.Error(t, err)
}
