package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStatus_AllowedTransitions(t *testing.T) {
	cases := []struct {
		action  string
		current string
		want    string
	}{
		{ActionAssignToRoom, StatusInStock, StatusInStock},
		{ActionStartUse, StatusInStock, StatusInUse},
		{ActionSendToRepair, StatusInUse, StatusInRepair},
		{ActionCompleteRepair, StatusInRepair, StatusInUse},
		{ActionReturnToWarehouse, StatusInUse, StatusInStock},
		{ActionReturnToWarehouse, StatusInRepair, StatusInStock},
		{ActionDispose, StatusInStock, StatusDisposed},
		{ActionDispose, StatusInUse, StatusDisposed},
		{ActionDispose, StatusInRepair, StatusDisposed},
	}

	for _, tc := range cases {
		got, ok := NextStatus(tc.action, tc.current)
		assert.True(t, ok, "%s из %s должен быть допустим", tc.action, tc.current)
		assert.Equal(t, tc.want, got)
	}
}

func TestNextStatus_DeniedTransitions(t *testing.T) {
	cases := []struct {
		action  string
		current string
	}{
		{ActionAssignToRoom, StatusInUse},
		{ActionAssignToRoom, StatusInRepair},
		{ActionStartUse, StatusInUse},
		{ActionStartUse, StatusInRepair},
		{ActionSendToRepair, StatusInStock},
		{ActionSendToRepair, StatusInRepair},
		{ActionCompleteRepair, StatusInStock},
		{ActionCompleteRepair, StatusInUse},
		{ActionReturnToWarehouse, StatusInStock},
	}

	for _, tc := range cases {
		_, ok := NextStatus(tc.action, tc.current)
		assert.False(t, ok, "%s из %s должен быть отклонён", tc.action, tc.current)
	}
}

// Disposed терминален: ни одно действие из него недопустимо.
func TestNextStatus_DisposedIsTerminal(t *testing.T) {
	actions := []string{
		ActionAssignToRoom, ActionStartUse, ActionSendToRepair,
		ActionCompleteRepair, ActionReturnToWarehouse, ActionDispose,
	}
	for _, action := range actions {
		_, ok := NextStatus(action, StatusDisposed)
		assert.False(t, ok, "%s из disposed должен быть отклонён", action)
	}
}

func TestKnownAction(t *testing.T) {
	assert.True(t, KnownAction(ActionStartUse))
	assert.True(t, KnownAction(ActionDispose))
	assert.False(t, KnownAction("teleport"))
	assert.False(t, KnownAction(""))
}
