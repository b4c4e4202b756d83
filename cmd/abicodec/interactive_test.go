package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func loadedModel(t *testing.T) *interactiveModel {
	t.Helper()
	m := newInteractiveModel(counterABI, 0)
	msg := m.Init()()
	loaded, ok := msg.(loadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	m.Update(loaded)
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInteractiveLoad(t *testing.T) {
	m := loadedModel(t)
	require.Len(t, m.funcs, 3)
	require.Equal(t, "entry_one", m.funcs[0].fn.Name)
	require.Equal(t, "u32", m.funcs[0].resultType)
	require.Empty(t, m.funcs[2].resultType)

	view := m.View()
	require.Contains(t, view, "ABI Codec")
	require.Contains(t, view, "entry_one")
}

func TestInteractiveLoadError(t *testing.T) {
	m := newInteractiveModel("testdata/missing.json", 0)
	m.Update(m.Init()())
	require.Error(t, m.err)
	require.Contains(t, m.View(), "Error")
}

func TestInteractiveBuildCall(t *testing.T) {
	m := loadedModel(t)

	m.Update(key("enter"))
	require.Equal(t, stateInputArgs, m.state)
	require.Len(t, m.inputs, 1)

	m.inputs[0].SetValue("4294967295")
	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)

	m.Update(cmd())
	require.Equal(t, stateShowResult, m.state)
	require.NoError(t, m.err)
	require.True(t, strings.Contains(m.result, "0xb79ef74300000000ffffffff"), m.result)

	m.Update(key("enter"))
	require.Equal(t, stateSelectFunc, m.state)
}

func TestInteractiveNoArgs(t *testing.T) {
	m := loadedModel(t)
	m.Update(key("down"))
	m.Update(key("down"))
	require.Equal(t, 2, m.selected)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	require.Equal(t, stateShowResult, m.state)
	require.Contains(t, m.result, "ping()")
}

func TestInteractiveBadArgument(t *testing.T) {
	m := loadedModel(t)
	m.Update(key("enter"))
	m.inputs[0].SetValue("not-a-number")
	_, cmd := m.Update(key("enter"))
	m.Update(cmd())
	require.Error(t, m.err)
	require.Contains(t, m.View(), "Error")

	m.Update(key("esc"))
	require.Equal(t, stateSelectFunc, m.state)
	require.NoError(t, m.err)
}
