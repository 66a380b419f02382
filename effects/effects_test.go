package effects_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on-the-ground/updraft/effects"
	"github.com/on-the-ground/updraft/effects/task"
)

type childMsg int

type parentMsg string

func resolveAll[M any](t *testing.T, tasks []*task.Task[M]) []M {
	t.Helper()
	msgs := make([]M, 0, len(tasks))
	for _, tk := range tasks {
		m, ok := tk.Resolve(context.Background())
		require.True(t, ok, "every task in the bundle must resolve")
		msgs = append(msgs, m)
	}
	return msgs
}

func TestEffects_ConstructorsPlaceChannels(t *testing.T) {
	local := effects.WithLocal[childMsg, parentMsg](1, 2)
	assert.Len(t, local.Local, 2)
	assert.Empty(t, local.External)

	external := effects.WithExternal[childMsg, parentMsg]("up")
	assert.Empty(t, external.Local)
	assert.Len(t, external.External, 1)

	both := effects.New([]childMsg{1}, []parentMsg{"up"})
	assert.Len(t, both.Local, 1)
	assert.Len(t, both.External, 1)

	none := effects.None[childMsg, parentMsg]()
	assert.Empty(t, none.Local)
	assert.Empty(t, none.External)
	assert.True(t, none.Modifier().ShouldUpdateView)
}

func TestEffects_AsyncConstructors(t *testing.T) {
	e := effects.WithLocalAsync[childMsg, parentMsg](
		func(context.Context) childMsg { return 7 },
	)
	require.Len(t, e.Local, 1)
	assert.False(t, e.Local[0].Ready())
	assert.Equal(t, []childMsg{7}, resolveAll(t, e.Local))
}

func TestEffects_MapLocalLeavesExternal(t *testing.T) {
	e := effects.New([]childMsg{1, 2}, []parentMsg{"up"})
	mapped := effects.MapLocal(e, func(m childMsg) string {
		return strconv.Itoa(int(m) * 10)
	})

	assert.Equal(t, []string{"10", "20"}, resolveAll(t, mapped.Local))
	assert.Equal(t, []parentMsg{"up"}, resolveAll(t, mapped.External))
}

func TestEffects_MapExternalLeavesLocal(t *testing.T) {
	e := effects.New([]childMsg{3}, []parentMsg{"a", "b"})
	mapped := effects.MapExternal(e, func(x parentMsg) parentMsg {
		return x + "!"
	})

	assert.Equal(t, []childMsg{3}, resolveAll(t, mapped.Local))
	assert.Equal(t, []parentMsg{"a!", "b!"}, resolveAll(t, mapped.External))
}

func TestEffects_LocalizeOrderingAndLengths(t *testing.T) {
	e := effects.New([]childMsg{1, 2}, []parentMsg{"ext-a", "ext-b"})
	localized := effects.Localize[childMsg, parentMsg, effects.Unit](e, func(m childMsg) parentMsg {
		return parentMsg("child-" + strconv.Itoa(int(m)))
	})

	require.Len(t, localized.Local, 4, "local length = external + local")
	assert.Empty(t, localized.External)

	// external tasks precede translated local tasks
	got := resolveAll(t, localized.Local)
	assert.Equal(t, []parentMsg{"ext-a", "ext-b", "child-1", "child-2"}, got)
}

func TestEffects_LocalizeKeepsModifier(t *testing.T) {
	e := effects.WithLocal[childMsg, parentMsg](1).NoRender().MeasureWithName("child")
	localized := effects.Localize[childMsg, parentMsg, effects.Unit](e, func(m childMsg) parentMsg {
		return parentMsg(strconv.Itoa(int(m)))
	})
	mod := localized.Modifier()
	assert.False(t, mod.ShouldUpdateView)
	assert.True(t, mod.LogMeasurements)
	assert.Equal(t, "child", mod.MeasurementName)
}

func TestEffects_BatchConcatenatesInOrder(t *testing.T) {
	b1 := effects.New([]childMsg{1, 2}, []parentMsg{"x"})
	b2 := effects.New([]childMsg{3}, []parentMsg{"y", "z"})

	merged := effects.Batch(b1, b2)
	assert.Equal(t, []childMsg{1, 2, 3}, resolveAll(t, merged.Local))
	assert.Equal(t, []parentMsg{"x", "y", "z"}, resolveAll(t, merged.External))
}

func TestEffects_BatchRenderIffAnyInputRenders(t *testing.T) {
	render := effects.WithLocal[childMsg, parentMsg](1)
	silent := effects.WithLocal[childMsg, parentMsg](2).NoRender()

	assert.True(t, effects.Batch(render, silent).Modifier().ShouldUpdateView)
	assert.True(t, effects.Batch(silent, render).Modifier().ShouldUpdateView)

	silent2 := effects.WithLocal[childMsg, parentMsg](3).NoRender()
	assert.False(t, effects.Batch(silent, silent2).Modifier().ShouldUpdateView)
}

func TestEffects_BatchMergesMeasurement(t *testing.T) {
	plain := effects.WithLocal[childMsg, parentMsg](1)
	measured := effects.WithLocal[childMsg, parentMsg](2).MeasureWithName("anim")

	mod := effects.Batch(plain, measured).Modifier()
	assert.True(t, mod.LogMeasurements)
	assert.Equal(t, "anim", mod.MeasurementName)
}

func TestEffects_BatchOfNothingIsNone(t *testing.T) {
	merged := effects.Batch[childMsg, parentMsg]()
	assert.Empty(t, merged.Local)
	assert.Empty(t, merged.External)
	assert.True(t, merged.Modifier().ShouldUpdateView)
}

func TestEffects_AppendLocalAndExtend(t *testing.T) {
	e := effects.WithLocal[childMsg, parentMsg](1).
		AppendLocal(2).
		Extend([]childMsg{3}, []parentMsg{"up"})

	assert.Equal(t, []childMsg{1, 2, 3}, resolveAll(t, e.Local))
	assert.Equal(t, []parentMsg{"up"}, resolveAll(t, e.External))
}

func TestEffects_WithLocalTasks(t *testing.T) {
	tk := task.New(func(context.Context) childMsg { return 9 })
	e := effects.WithLocalTasks[childMsg, parentMsg](tk)
	require.Len(t, e.Local, 1)
	assert.Equal(t, []childMsg{9}, resolveAll(t, e.Local))
}
