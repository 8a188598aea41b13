package benchkit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			"duplicate",
			&DuplicateTypeError{Category: CategoryTask, Name: "Cubic"},
			`task type "Cubic" already registered`,
		},
		{
			"unknown",
			&UnknownTypeError{Category: CategoryMethod, Name: "Newton"},
			`unknown method type "Newton"`,
		},
		{
			"configuration",
			&ConfigurationError{Reason: "no run callback installed"},
			"configuration: no run callback installed",
		},
		{
			"execution",
			&ExecutionError{TaskType: "Cubic", MethodType: "Newton", Err: errors.New("boom")},
			"run Cubic with Newton: boom",
		},
		{
			"decode",
			&DecodeError{Category: CategoryResult, Name: "PlainResult", Err: errors.New("bad payload")},
			`decode result "PlainResult": bad payload`,
		},
		{
			"storage",
			&StorageError{Op: "append run", Err: errors.New("disk full")},
			"storage append run: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorHelpersMatchWrapped(t *testing.T) {
	cause := errors.New("cause")

	exec := fmt.Errorf("outer: %w", &ExecutionError{TaskType: "T", MethodType: "M", Err: cause})
	assert.True(t, IsExecution(exec))
	assert.ErrorIs(t, exec, cause)

	assert.True(t, IsStorage(fmt.Errorf("outer: %w", &StorageError{Op: "open", Err: cause})))
	assert.True(t, IsDecode(fmt.Errorf("outer: %w", &DecodeError{Category: CategoryTask, Name: "T", Err: cause})))
	assert.True(t, IsDuplicateType(fmt.Errorf("outer: %w", &DuplicateTypeError{Category: CategoryTask, Name: "T"})))
	assert.True(t, IsUnknownType(fmt.Errorf("outer: %w", &UnknownTypeError{Category: CategoryTask, Name: "T"})))
	assert.True(t, IsConfiguration(fmt.Errorf("outer: %w", &ConfigurationError{Reason: "r"})))
}

func TestErrorHelpersRejectOthers(t *testing.T) {
	err := errors.New("plain")
	assert.False(t, IsExecution(err))
	assert.False(t, IsStorage(err))
	assert.False(t, IsDecode(err))
	assert.False(t, IsDuplicateType(err))
	assert.False(t, IsUnknownType(err))
	assert.False(t, IsConfiguration(err))
}
