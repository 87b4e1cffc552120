package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func TestContentPanelList(t *testing.T) {
	c := &Content{}
	assert.Equal(t, []string{}, c.PanelList())

	c.Panels = EncodePanels([]string{"https://a.io/1.png", "https://a.io/2.png"})
	assert.Equal(t, []string{"https://a.io/1.png", "https://a.io/2.png"}, c.PanelList())

	c.Panels = datatypes.JSON(`{"panels": "oops"`)
	assert.Equal(t, []string{}, c.PanelList(), "malformed data degrades to empty")

	c.Panels = datatypes.JSON(`{"other": 1}`)
	assert.Equal(t, []string{}, c.PanelList())

	assert.Nil(t, EncodePanels(nil))
}

func TestContentUnlockedAt(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	later := now.Add(time.Minute)

	c := &Content{IsUnlocked: false}
	assert.False(t, c.UnlockedAt(now))

	c.IsUnlocked = true
	assert.True(t, c.UnlockedAt(now))

	c.UnlockTime = &later
	assert.False(t, c.UnlockedAt(now))
	assert.True(t, c.UnlockedAt(later))
}

func TestAttemptState(t *testing.T) {
	var missing *Attempt
	assert.Equal(t, AttemptNone, missing.State())

	a := &Attempt{BaseModel: BaseModel{ID: 1}}
	assert.Equal(t, AttemptInProgress, a.State())

	end := time.Now()
	a.EndTime = &end
	assert.Equal(t, AttemptFinalized, a.State())
}
