package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigurationSnapshot_Merge(t *testing.T) {
	base := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(100.0),
		DistanceFilter:  Ptr(50.0),
	}
	update := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(10.0),
	}

	merged := base.Merge(update)
	assert.Equal(t, 10.0, *merged.DesiredAccuracy)
	// Absent fields leave the current value unchanged.
	assert.Equal(t, 50.0, *merged.DistanceFilter)
	assert.Nil(t, merged.ActivityType)
}

func TestConfigurationSnapshot_MergeIsIdempotent(t *testing.T) {
	base := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(100.0),
		HeadingFilter:   Ptr(5.0),
	}
	update := ConfigurationSnapshot{
		DesiredAccuracy:                 Ptr(10.0),
		AllowsBackgroundLocationUpdates: Ptr(true),
	}

	once := base.Merge(update)
	twice := once.Merge(update)
	assert.True(t, once.EquivalentOn(twice, EnvPhone))
}

func TestConfigurationSnapshot_ApplicableOn(t *testing.T) {
	snapshot := ConfigurationSnapshot{
		DesiredAccuracy:                 Ptr(10.0),
		ActivityType:                    Ptr(ActivityFitness),
		AllowsBackgroundLocationUpdates: Ptr(true),
		HeadingFilter:                   Ptr(5.0),
	}

	t.Run("phone keeps everything", func(t *testing.T) {
		applicable := snapshot.ApplicableOn(EnvPhone)
		assert.NotNil(t, applicable.ActivityType)
		assert.NotNil(t, applicable.AllowsBackgroundLocationUpdates)
		assert.NotNil(t, applicable.HeadingFilter)
	})

	t.Run("desktop strips phone-only fields", func(t *testing.T) {
		applicable := snapshot.ApplicableOn(EnvDesktop)
		assert.Nil(t, applicable.ActivityType)
		assert.Nil(t, applicable.AllowsBackgroundLocationUpdates)
		assert.Nil(t, applicable.HeadingFilter)
		// Universal fields survive.
		assert.NotNil(t, applicable.DesiredAccuracy)
	})
}

func TestConfigurationSnapshot_EquivalentOn(t *testing.T) {
	a := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(10.0),
		HeadingFilter:   Ptr(5.0),
	}
	b := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(10.0),
		HeadingFilter:   Ptr(45.0),
	}

	// Heading filter is meaningless on desktop, so the difference vanishes.
	assert.True(t, a.EquivalentOn(b, EnvDesktop))
	// On phone the same pair differs.
	assert.False(t, a.EquivalentOn(b, EnvPhone))

	c := ConfigurationSnapshot{
		DesiredAccuracy: Ptr(25.0),
		HeadingFilter:   Ptr(5.0),
	}
	// An applicable field differing compares unequal everywhere.
	assert.False(t, a.EquivalentOn(c, EnvDesktop))
	assert.False(t, a.EquivalentOn(c, EnvPhone))
}

func TestCapabilities(t *testing.T) {
	phone := Capabilities(EnvPhone)
	assert.True(t, phone.Supports(OpBeaconRanging))
	assert.True(t, phone.Supports(OpRegionMonitoring))

	tv := Capabilities(EnvTV)
	assert.False(t, tv.Supports(OpRegionMonitoring))
	assert.False(t, tv.Supports(OpHeadingUpdates))
	assert.True(t, tv.Supports(OpLocationUpdates))

	unknown := Capabilities(Environment("toaster"))
	assert.False(t, unknown.Supports(OpLocationUpdates))
}

func TestCapabilities_CloneIsIndependent(t *testing.T) {
	caps := Capabilities(EnvTV)
	caps[OpRegionMonitoring] = true
	assert.False(t, Capabilities(EnvTV).Supports(OpRegionMonitoring))
}
