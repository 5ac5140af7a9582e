package ui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/cocoon/internal/launcher"
	"github.com/gravitrone/cocoon/internal/record"
)

func TestTypingRunsSearch(t *testing.T) {
	app, _ := newTestApp(t)
	assert.Empty(t, app.session.Results())

	app = typeText(t, app, "passport")
	require.Len(t, app.session.Results(), 3)
	assert.Equal(t, "passport", app.session.Query())

	app = typeText(t, app, " @bob")
	require.Len(t, app.session.Results(), 1)
	assert.Equal(t, "pp2", app.session.Results()[0].Item.ID)
}

func TestArrowKeysMoveAndExpand(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(t, app, "passport")

	app = press(t, app, key(tea.KeyDown), key(tea.KeyDown), key(tea.KeyDown))
	assert.Equal(t, 2, app.session.Selection().SelectedIndex)

	app = press(t, app, key(tea.KeyUp))
	assert.Equal(t, 1, app.session.Selection().SelectedIndex)

	app = press(t, app, key(tea.KeyRight))
	assert.Equal(t, launcher.Expanded, app.session.State())
	assert.Equal(t, "pp2", app.session.Selection().ExpandedID)

	app = press(t, app, key(tea.KeyLeft))
	assert.Equal(t, launcher.Listing, app.session.State())
	assert.Equal(t, 1, app.session.Selection().SelectedIndex)
}

func TestEscapeCollapsesThenHides(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(t, app, "passport")
	app = press(t, app, key(tea.KeyRight))
	require.Equal(t, launcher.Expanded, app.session.State())

	model, cmd := app.Update(key(tea.KeyEsc))
	app = model.(App)
	assert.Equal(t, launcher.Listing, app.session.State())
	assert.False(t, isQuitCmd(cmd))
	assert.False(t, app.Hidden())

	model, cmd = app.Update(key(tea.KeyEsc))
	app = model.(App)
	assert.True(t, isQuitCmd(cmd))
	assert.True(t, app.Hidden())
}

func TestEscapeCancelsFormBeforeHiding(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(t, app, key(tea.KeyCtrlN))
	require.Equal(t, launcher.SubviewAdd, app.session.Subview())

	model, cmd := app.Update(key(tea.KeyEsc))
	app = model.(App)
	assert.Equal(t, launcher.SubviewNone, app.session.Subview())
	assert.False(t, isQuitCmd(cmd))
	assert.False(t, app.Hidden())
}

func TestCtrlCQuitsFromAnywhere(t *testing.T) {
	app, _ := newTestApp(t)
	app = press(t, app, key(tea.KeyCtrlN))

	_, cmd := app.Update(key(tea.KeyCtrlC))
	assert.True(t, isQuitCmd(cmd))
}

func TestEnterCopiesDefaultFieldWithoutStateChange(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@bob")

	model, cmd := app.Update(key(tea.KeyEnter))
	app = model.(App)
	assert.Equal(t, []string{"P2"}, h.clip.writes)
	assert.Equal(t, launcher.Listing, app.session.State())
	assert.False(t, app.Hidden())
	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "Copied number")

	app = feed(t, app, cmd)
	assert.Nil(t, app.toast)
}

func TestEnterWithStaleDefaultFieldIsSilent(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@carol")

	app = press(t, app, key(tea.KeyEnter))
	assert.Empty(t, h.clip.writes)
	assert.Nil(t, app.toast)
	assert.Empty(t, app.err)
}

func TestDigitsCopyFieldsInDetailView(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@alice passport")
	app = press(t, app, key(tea.KeyRight))
	require.Equal(t, "pp", app.session.Selection().ExpandedID)

	app = typeText(t, app, "2")
	assert.Equal(t, []string{"USA"}, h.clip.writes)
	assert.Equal(t, "@alice passport", app.session.Query())

	app = typeText(t, app, "9")
	assert.Len(t, h.clip.writes, 1)
}

func TestTypingInDetailViewReturnsToListing(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(t, app, "passport")
	app = press(t, app, key(tea.KeyRight))

	app = typeText(t, app, "x")
	assert.Equal(t, launcher.Listing, app.session.State())
	assert.Equal(t, "passportx", app.session.Query())
}

func TestOpenLinkDispatchesAndToasts(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@alice passport")

	model, cmd := app.Update(key(tea.KeyCtrlO))
	app = model.(App)
	require.NotNil(t, cmd)
	msgs := runCmd(cmd)
	require.Len(t, msgs, 1)
	app = update(t, app, msgs[0])

	assert.Equal(t, []string{"https://example.com/pp.pdf"}, h.opener.opened)
	require.NotNil(t, app.toast)
	assert.Contains(t, app.toast.text, "Opened link")
}

func TestOpenLinkWithoutLinkIsNoop(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@bob")

	_, cmd := app.Update(key(tea.KeyCtrlO))
	assert.Nil(t, cmd)
	assert.Empty(t, h.opener.opened)
}

func TestHelpOpensOnlyWhenQueryEmptyOrExpanded(t *testing.T) {
	app, _ := newTestApp(t)

	app = typeText(t, app, "?")
	assert.True(t, app.helpOpen)
	app = press(t, app, key(tea.KeyEsc))
	assert.False(t, app.helpOpen)
	assert.False(t, app.Hidden())

	app = typeText(t, app, "p?")
	assert.False(t, app.helpOpen)
	assert.Equal(t, "p?", app.session.Query())
}

func TestEscClosesHelpBeforeDetailView(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(t, app, "passport")
	app = press(t, app, key(tea.KeyRight), runeKey('?'))
	require.True(t, app.helpOpen)

	app = press(t, app, key(tea.KeyEsc))
	assert.False(t, app.helpOpen)
	assert.Equal(t, launcher.Expanded, app.session.State())

	app = press(t, app, key(tea.KeyEsc))
	assert.Equal(t, launcher.Listing, app.session.State())
	assert.False(t, app.Hidden())
}

func TestAddFormSavesOptimistically(t *testing.T) {
	app, h := newTestApp(t)
	app = press(t, app, key(tea.KeyCtrlN))

	app = typeText(t, app, "Visa")
	app = press(t, app, key(tea.KeyTab))
	app = typeText(t, app, "dave")
	app = press(t, app, key(tea.KeyTab))
	app = typeText(t, app, "number")
	app = press(t, app, key(tea.KeyTab), key(tea.KeyTab))
	app = typeText(t, app, "number=V1")
	app = press(t, app, key(tea.KeyEnter))
	app = typeText(t, app, "country=FR")

	model, cmd := app.Update(key(tea.KeyCtrlS))
	app = model.(App)
	assert.Equal(t, launcher.SubviewNone, app.session.Subview())
	require.Len(t, app.session.Records(), 5)
	added := app.session.Records()[4]
	assert.Equal(t, "Visa", added.Type)
	assert.Equal(t, "dave", added.Owner)
	assert.Equal(t, []string{"number", "country"}, added.Fields.Keys())
	assert.Equal(t, 0, h.store.saveCount())

	app = feed(t, app, cmd)
	assert.Equal(t, 1, h.store.saveCount())
	assert.NoError(t, app.session.SaveErr())

	app = typeText(t, app, "@dave")
	require.Len(t, app.session.Results(), 1)
}

func TestAddFormRejectsInvalidInput(t *testing.T) {
	app, h := newTestApp(t)
	app = press(t, app, key(tea.KeyCtrlN))

	app = press(t, app, key(tea.KeyCtrlS))
	assert.Equal(t, launcher.SubviewAdd, app.session.Subview())
	assert.Equal(t, "type is required", app.form.err)

	app = typeText(t, app, "Card")
	app = press(t, app, key(tea.KeyTab), key(tea.KeyTab), key(tea.KeyTab))
	app = typeText(t, app, "file:///etc/passwd")
	app = press(t, app, key(tea.KeyCtrlS))
	assert.Contains(t, app.form.err, "http")
	assert.Len(t, app.session.Records(), 4)
	assert.Equal(t, 0, h.store.saveCount())
}

func TestEditFormReplacesAndRestoresDetail(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@bob")
	app = press(t, app, key(tea.KeyRight))
	require.Equal(t, "pp2", app.session.Selection().ExpandedID)

	app = press(t, app, key(tea.KeyCtrlE))
	require.Equal(t, launcher.SubviewEdit, app.session.Subview())
	assert.Equal(t, launcher.Listing, app.session.State())

	app = press(t, app, key(tea.KeyShiftTab))
	app = press(t, app, key(tea.KeyEnter))
	app = typeText(t, app, "note=renewed")

	model, cmd := app.Update(key(tea.KeyCtrlS))
	app = model.(App)
	app = feed(t, app, cmd)

	assert.Equal(t, "pp2", app.session.Selection().ExpandedID)
	rec, ok := app.session.Records().Find("pp2")
	require.True(t, ok)
	assert.Equal(t, []string{"number", "country", "note"}, rec.Fields.Keys())
	assert.Equal(t, 1, h.store.saveCount())
	assert.Equal(t, "pp2", h.store.records[1].ID)
}

func TestDeleteConfirmFlow(t *testing.T) {
	app, h := newTestApp(t)
	app = typeText(t, app, "@alice")
	require.Len(t, app.session.Results(), 2)

	app = press(t, app, key(tea.KeyCtrlD))
	assert.Equal(t, launcher.SubviewConfirmDelete, app.session.Subview())
	app = typeText(t, app, "n")
	assert.Equal(t, launcher.SubviewNone, app.session.Subview())
	assert.Len(t, app.session.Records(), 4)

	app = press(t, app, key(tea.KeyCtrlD))
	model, cmd := app.Update(runeKey('y'))
	app = model.(App)
	assert.Len(t, app.session.Records(), 3)
	require.Len(t, app.session.Results(), 1)
	assert.Equal(t, "lic", app.session.Results()[0].Item.ID)

	app = feed(t, app, cmd)
	assert.Equal(t, 1, h.store.saveCount())
	assert.Len(t, h.store.records, 3)
}

func TestSaveFailureKeepsChangeAndShowsDismissibleError(t *testing.T) {
	app, h := newTestApp(t)
	h.store.saveErr = errors.New("disk full")

	app = typeText(t, app, "@bob")
	app = press(t, app, key(tea.KeyCtrlD))
	model, cmd := app.Update(runeKey('y'))
	app = model.(App)
	app = feed(t, app, cmd)

	assert.Len(t, app.session.Records(), 3)
	require.Error(t, app.session.SaveErr())
	assert.Contains(t, app.errorText(), "disk full")

	app = press(t, app, key(tea.KeyDown))
	assert.NoError(t, app.session.SaveErr())
	assert.Empty(t, app.errorText())
	assert.Len(t, app.session.Records(), 3)
}

func TestEscOnSaveErrorOnlyDismisses(t *testing.T) {
	app, h := newTestApp(t)
	h.store.saveErr = errors.New("disk full")

	app = typeText(t, app, "@bob")
	app = press(t, app, key(tea.KeyCtrlD))
	model, cmd := app.Update(runeKey('y'))
	app = feed(t, model.(App), cmd)
	require.Contains(t, app.errorText(), "disk full")

	model, cmd = app.Update(key(tea.KeyEsc))
	app = model.(App)
	assert.False(t, isQuitCmd(cmd))
	assert.False(t, app.Hidden())
	assert.Empty(t, app.errorText())
	assert.Len(t, app.session.Records(), 3)

	model, cmd = app.Update(key(tea.KeyEsc))
	assert.True(t, isQuitCmd(cmd))
	assert.True(t, model.(App).Hidden())
}

func TestLoadErrorShowsErrorBox(t *testing.T) {
	fastToasts(t)
	st := &memStore{loadErr: errors.New("bad passphrase")}
	app := NewApp(Options{Store: st, Logger: quietLogger()})
	require.True(t, app.loading)

	app = update(t, app, app.loadCmd()())
	assert.False(t, app.loading)
	assert.Contains(t, app.errorText(), "bad passphrase")

	app = press(t, app, key(tea.KeyEsc))
	assert.Empty(t, app.errorText())
	assert.False(t, app.Hidden())

	app = press(t, app, key(tea.KeyCtrlN))
	app = typeText(t, app, "Card")
	model, cmd := app.Update(key(tea.KeyCtrlS))
	app = model.(App)
	for _, msg := range runCmd(cmd) {
		_, isSave := msg.(savedMsg)
		assert.False(t, isSave)
	}

	assert.Len(t, app.session.Records(), 1)
	assert.Nil(t, app.toast)
	assert.ErrorIs(t, app.session.SaveErr(), errStoreUnavailable)
	assert.Contains(t, app.errorText(), "changes not saved")
	assert.Equal(t, 0, st.saveCount())
}

func TestMouseHoverAndClick(t *testing.T) {
	app, _ := newTestApp(t)
	app = typeText(t, app, "passport")

	top := lipgloss.Height(app.renderHeader()) + lipgloss.Height(app.renderQuery()) + 3
	app = update(t, app, tea.MouseMsg{Y: top + 1, Action: tea.MouseActionMotion})
	assert.Equal(t, 1, app.session.Selection().SelectedIndex)

	app = update(t, app, tea.MouseMsg{Y: top + 40, Action: tea.MouseActionMotion})
	assert.Equal(t, 1, app.session.Selection().SelectedIndex)

	app = update(t, app, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	assert.Equal(t, 2, app.session.Selection().SelectedIndex)

	app = update(t, app, tea.MouseMsg{Y: top, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	assert.Equal(t, launcher.Expanded, app.session.State())
	assert.Equal(t, "pp", app.session.Selection().ExpandedID)
}

func TestSaverSkipsOlderSnapshots(t *testing.T) {
	st := &memStore{}
	sv := &saver{store: st}
	ctx := context.Background()

	require.NoError(t, sv.save(ctx, 2, []record.Record{{ID: "b", Type: "B"}}))
	require.NoError(t, sv.save(ctx, 1, []record.Record{{ID: "a", Type: "A"}}))
	assert.Equal(t, 1, st.saveCount())
	assert.Equal(t, "b", st.records[0].ID)
}

func TestVimChordsNavigateWhenEnabled(t *testing.T) {
	app, _ := newTestApp(t)
	app.keys = keymap{vim: true}
	app = typeText(t, app, "passport")

	app = press(t, app, key(tea.KeyCtrlJ))
	assert.Equal(t, 1, app.session.Selection().SelectedIndex)
	app = press(t, app, key(tea.KeyCtrlL))
	assert.Equal(t, launcher.Expanded, app.session.State())
}
