package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameOrAllReturnsGivenName(t *testing.T) {
	assert.Equal(t, "web", nameOrAll([]string{"web"}))
}

func TestNameOrAllDefaultsToAllWhenNoArgsGiven(t *testing.T) {
	assert.Equal(t, "all", nameOrAll(nil))
}
