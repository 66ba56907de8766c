package step

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"valid simple", "brew", nil},
		{"valid namespaced", "brew:formula:ripgrep", nil},
		{"valid with dots", "macos:defaults:com.apple.dock", nil},
		{"empty", "", ErrEmptyID},
		{"whitespace only", "   ", ErrEmptyID},
		{"leading colon", ":brew", ErrInvalidID},
		{"spaces inside", "brew install git", ErrInvalidID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewID(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestMustNewID_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() {
		MustNewID("")
	})
}

func TestID_Provider(t *testing.T) {
	id := MustNewID("brew:formula:git")
	assert.Equal(t, "brew", id.Provider())
}

func TestID_IsZero(t *testing.T) {
	assert.True(t, ID{}.IsZero())
	assert.False(t, MustNewID("x").IsZero())
}

func TestUnit_Unconditional(t *testing.T) {
	unit := NewUnit(MustNewID("shell:zshrc"), "Generate zshrc", func(context.Context) error {
		return nil
	})

	assert.True(t, unit.Unconditional())

	status, err := unit.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusNeedsApply, status, "unconditional units always need apply")
}

func TestUnit_WithCheck(t *testing.T) {
	unit := NewUnit(MustNewID("brew:formula:git"), "Install git",
		func(context.Context) error { return nil },
		WithCheck(func(context.Context) (Status, error) {
			return StatusSatisfied, nil
		}),
	)

	assert.False(t, unit.Unconditional())

	status, err := unit.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusSatisfied, status)
}

func TestUnit_Retryable(t *testing.T) {
	plain := NewUnit(MustNewID("a"), "a", func(context.Context) error { return nil })
	retry := NewUnit(MustNewID("b"), "b", func(context.Context) error { return nil }, Retryable())

	assert.False(t, plain.IsRetryable())
	assert.True(t, retry.IsRetryable())
}

func TestUnit_Apply(t *testing.T) {
	wantErr := errors.New("boom")
	unit := NewUnit(MustNewID("x"), "x", func(context.Context) error { return wantErr })

	assert.ErrorIs(t, unit.Apply(context.Background()), wantErr)
}

func TestResult(t *testing.T) {
	id := MustNewID("brew:formula:git")
	r := NewResult(id, StatusSatisfied, nil).WithDuration(2 * time.Second)

	assert.Equal(t, id, r.ID())
	assert.Equal(t, StatusSatisfied, r.Status())
	assert.NoError(t, r.Error())
	assert.Equal(t, 2*time.Second, r.Duration())
	assert.True(t, r.Success())
}

func TestResult_Failed(t *testing.T) {
	r := NewResult(MustNewID("x"), StatusFailed, errors.New("boom"))
	assert.False(t, r.Success())
	assert.Error(t, r.Error())
}

func TestResult_SkippedIsSuccess(t *testing.T) {
	r := NewResult(MustNewID("x"), StatusSkipped, nil)
	assert.True(t, r.Success())
}
