package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"chatz/pkg/identity"
)

func TestChannel_CloneDoesNotAlias(t *testing.T) {
	hash := "h"
	c := &Channel{ID: 2, PasswordHash: &hash, Members: []identity.Principal{"a"}}
	cp := c.Clone()

	cp.Members = append(cp.Members, "b")
	*cp.PasswordHash = "other"

	assert.Equal(t, []identity.Principal{"a"}, c.Members)
	assert.Equal(t, "h", *c.PasswordHash)
	assert.True(t, c.HasMember("a"))
	assert.False(t, c.HasMember("b"))
	assert.True(t, c.IsPasswordProtected())
	assert.False(t, c.IsGeneral())
}
