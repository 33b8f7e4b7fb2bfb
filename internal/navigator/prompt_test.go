package navigator

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"earshot/internal/domain"
)

func typeText(t *testing.T, n *Navigator, s State, text string) State {
	t.Helper()
	for _, r := range text {
		var res Result
		s, res = n.Apply(ctx, s, domain.PromptChar(r))
		require.Equal(t, ResultPromptChanged, res.Kind)
	}
	return s
}

func pathPrompt(t *testing.T, n *Navigator, s State, text string) State {
	t.Helper()
	s, r := n.Apply(ctx, s, cmd(domain.CmdGoToPath))
	require.Equal(t, ResultPromptStarted, r.Kind)
	s, _ = n.Apply(ctx, s, cmd(domain.CmdClearPrompt))
	return typeText(t, n, s, text)
}

func TestPathPromptStartsAtOpenDirectory(t *testing.T) {
	n := newNav(homeFixture(t))
	s := open(t, n, "/home/user")

	s, r := n.Apply(ctx, s, cmd(domain.CmdGoToPath))
	assert.Equal(t, ResultPromptStarted, r.Kind)
	assert.Equal(t, PromptPath, r.Prompt)
	assert.Equal(t, "/home/user/", s.PromptText)

	// a second start is ignored
	_, r = n.Apply(ctx, s, cmd(domain.CmdRename))
	assert.Equal(t, ResultUnchanged, r.Kind)
}

func TestPromptEditing(t *testing.T) {
	n := newNav(homeFixture(t))
	s := open(t, n, "/home/user")
	s, _ = n.Apply(ctx, s, cmd(domain.CmdGoToPath))

	s, r := n.Apply(ctx, s, domain.PromptChar('é'))
	assert.Equal(t, ResultPromptChanged, r.Kind)
	assert.Equal(t, "/home/user/é", r.PromptText)

	s, r = n.Apply(ctx, s, cmd(domain.CmdBackspacePrompt))
	assert.Equal(t, ResultPromptChanged, r.Kind)
	assert.Equal(t, "/home/user/", s.PromptText)

	s, r = n.Apply(ctx, s, cmd(domain.CmdClearPrompt))
	assert.Equal(t, ResultPromptChanged, r.Kind)
	assert.Empty(t, s.PromptText)

	_, r = n.Apply(ctx, s, cmd(domain.CmdBackspacePrompt))
	assert.Equal(t, ResultUnchanged, r.Kind)
}

func TestCancelPromptLeavesListing(t *testing.T) {
	n := newNav(homeFixture(t))
	s := open(t, n, "/home/user")
	s, _ = n.Apply(ctx, s, cmd(domain.CmdMoveDown))
	s, _ = n.Apply(ctx, s, cmd(domain.CmdRename))
	s = typeText(t, n, s, "x")

	s, r := n.Apply(ctx, s, cmd(domain.CmdCancelPrompt))
	assert.Equal(t, ResultPromptCancelled, r.Kind)
	assert.Equal(t, PromptRename, r.Prompt)
	assert.Equal(t, "report.pdf", r.Target)
	assert.Equal(t, PromptNone, s.Prompt)
	assert.Empty(t, s.PromptText)
	assert.Equal(t, 1, s.Selected)

	_, r = n.Apply(ctx, s, cmd(domain.CmdCancelPrompt))
	assert.Equal(t, ResultUnchanged, r.Kind)
}

func TestJumpToTypedPath(t *testing.T) {
	fsys := homeFixture(t)
	require.NoError(t, afero.WriteFile(fsys, "/home/user/Documents/notes.txt", []byte("hi"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/home/user/Documents/a.txt", []byte("a"), 0o644))
	n := newNav(fsys)

	t.Run("directory", func(t *testing.T) {
		s := open(t, n, "/home/user")
		s = pathPrompt(t, n, s, "/home/user/Documents")
		s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
		require.Equal(t, ResultJumped, r.Kind, "%v", r.Err)
		assert.True(t, r.DirectoryChanged())
		assert.Equal(t, "Documents", r.Target)
		assert.Equal(t, "/home/user/Documents", s.Dir)
		assert.Equal(t, 0, s.Selected)
		assert.Equal(t, PromptNone, s.Prompt)
		require.Len(t, s.History, 1)
		assert.Equal(t, "/home/user", s.History[0].Path)

		s, r = n.Apply(ctx, s, cmd(domain.CmdGoBack))
		assert.Equal(t, ResultWentBack, r.Kind)
		assert.Equal(t, "/home/user", s.Dir)
	})

	t.Run("file selects it in its folder", func(t *testing.T) {
		s := open(t, n, "/home/user")
		s = pathPrompt(t, n, s, "/home/user/Documents/notes.txt")
		s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
		require.Equal(t, ResultJumped, r.Kind)
		assert.Equal(t, "/home/user/Documents", s.Dir)
		require.True(t, r.HasEntry)
		assert.Equal(t, "notes.txt", r.Entry.Name)
	})

	t.Run("relative path", func(t *testing.T) {
		s := open(t, n, "/home/user/Documents")
		s = pathPrompt(t, n, s, "../")
		s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
		require.Equal(t, ResultJumped, r.Kind)
		assert.Equal(t, "/home/user", s.Dir)
	})

	t.Run("missing", func(t *testing.T) {
		s := open(t, n, "/home/user")
		s = pathPrompt(t, n, s, "/nowhere")
		s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
		require.Equal(t, ResultFailed, r.Kind)
		assert.Equal(t, domain.ProbeNotFound, r.Err.Kind)
		assert.Equal(t, PromptPath, r.Prompt)
		assert.Equal(t, "/home/user", s.Dir)
		assert.Equal(t, PromptNone, s.Prompt)
	})

	t.Run("empty", func(t *testing.T) {
		s := open(t, n, "/home/user")
		s = pathPrompt(t, n, s, "  ")
		_, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
		assert.Equal(t, ResultPromptRejected, r.Kind)
		assert.Equal(t, "no path entered", r.Reason)
	})
}

func TestRenameSelectsNewName(t *testing.T) {
	fsys := homeFixture(t)
	n := newNav(fsys)
	s := open(t, n, "/home/user")
	s, _ = n.Apply(ctx, s, cmd(domain.CmdMoveDown))

	s, r := n.Apply(ctx, s, cmd(domain.CmdRename))
	require.Equal(t, ResultPromptStarted, r.Kind)
	assert.Equal(t, "report.pdf", s.PromptText)

	s, _ = n.Apply(ctx, s, cmd(domain.CmdClearPrompt))
	s = typeText(t, n, s, "annual.pdf")
	s, r = n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	require.Equal(t, ResultRenamed, r.Kind, "%v", r.Err)
	assert.Equal(t, "report.pdf", r.Target)
	assert.Equal(t, "annual.pdf", r.NewName)
	assert.Equal(t, []string{"Documents", "annual.pdf"}, names(s))
	assert.Equal(t, 1, s.Selected)

	exists, err := afero.Exists(fsys, "/home/user/annual.pdf")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = afero.Exists(fsys, "/home/user/report.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRenameRejections(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		reason string
	}{
		{"existing entry", "Documents", "Documents already exists"},
		{"unchanged", "report.pdf", "name unchanged"},
		{"slash", "a/b", "name cannot contain a slash"},
		{"dot dot", "..", ".. is not a valid name"},
		{"blank", " ", "name is empty"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := homeFixture(t)
			n := newNav(fsys)
			s := open(t, n, "/home/user")
			s, _ = n.Apply(ctx, s, cmd(domain.CmdMoveDown))
			s, _ = n.Apply(ctx, s, cmd(domain.CmdRename))
			s, _ = n.Apply(ctx, s, cmd(domain.CmdClearPrompt))
			s = typeText(t, n, s, tt.text)

			s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
			assert.Equal(t, ResultPromptRejected, r.Kind)
			assert.Equal(t, PromptRename, r.Prompt)
			assert.Equal(t, tt.reason, r.Reason)
			assert.Equal(t, PromptNone, s.Prompt)
			assert.Equal(t, []string{"Documents", "report.pdf"}, names(s))

			exists, err := afero.Exists(fsys, "/home/user/report.pdf")
			require.NoError(t, err)
			assert.True(t, exists)
		})
	}
}

func TestMutationsNeedMutator(t *testing.T) {
	n := New(&stubProbe{listings: map[string]domain.Listing{
		"/x": {Path: "/x", Entries: []domain.Entry{
			{Name: "a.txt", Path: "/x/a.txt", Kind: domain.KindFile},
		}},
	}}, DefaultOptions())
	s := open(t, n, "/x")

	s, _ = n.Apply(ctx, s, cmd(domain.CmdRename))
	s = typeText(t, n, s, "2")
	s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	assert.Equal(t, ResultPromptRejected, r.Kind)
	assert.Equal(t, "renaming is not available", r.Reason)

	s, _ = n.Apply(ctx, s, cmd(domain.CmdDelete))
	_, r = n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	assert.Equal(t, ResultPromptRejected, r.Kind)
	assert.Equal(t, "deleting is not available", r.Reason)
}

func TestDeleteKeepsPosition(t *testing.T) {
	fsys := homeFixture(t)
	require.NoError(t, afero.WriteFile(fsys, "/home/user/Documents/notes.txt", []byte("hi"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/home/user/zeta.txt", []byte("z"), 0o644))
	n := newNav(fsys)
	s := open(t, n, "/home/user")

	// delete the folder and what is in it
	s, r := n.Apply(ctx, s, cmd(domain.CmdDelete))
	require.Equal(t, ResultPromptStarted, r.Kind)
	assert.Equal(t, PromptConfirmDelete, s.Prompt)
	assert.Equal(t, "Documents", s.PromptTarget)

	// typing does nothing while confirming
	_, r = n.Apply(ctx, s, domain.PromptChar('x'))
	assert.Equal(t, ResultUnchanged, r.Kind)

	s, r = n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	require.Equal(t, ResultDeleted, r.Kind, "%v", r.Err)
	assert.Equal(t, "Documents", r.Target)
	assert.Equal(t, []string{"report.pdf", "zeta.txt"}, names(s))
	assert.Equal(t, 0, s.Selected)
	exists, err := afero.DirExists(fsys, "/home/user/Documents")
	require.NoError(t, err)
	assert.False(t, exists)

	// the last entry clamps back
	s, _ = n.Apply(ctx, s, cmd(domain.CmdMoveToLast))
	s, _ = n.Apply(ctx, s, cmd(domain.CmdDelete))
	s, r = n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	require.Equal(t, ResultDeleted, r.Kind)
	assert.Equal(t, []string{"report.pdf"}, names(s))
	assert.Equal(t, 0, s.Selected)

	s, _ = n.Apply(ctx, s, cmd(domain.CmdDelete))
	s, r = n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	require.Equal(t, ResultDeleted, r.Kind)
	assert.Equal(t, 0, r.Count)
	assert.Equal(t, -1, s.Selected)

	_, r = n.Apply(ctx, s, cmd(domain.CmdDelete))
	assert.Equal(t, ResultEmpty, r.Kind)
}

func TestDeleteVanishedEntry(t *testing.T) {
	fsys := homeFixture(t)
	n := newNav(fsys)
	s := open(t, n, "/home/user")
	s, _ = n.Apply(ctx, s, cmd(domain.CmdMoveDown))
	s, _ = n.Apply(ctx, s, cmd(domain.CmdDelete))

	require.NoError(t, fsys.Remove("/home/user/report.pdf"))
	s, r := n.Apply(ctx, s, cmd(domain.CmdSubmitPrompt))
	require.Equal(t, ResultFailed, r.Kind)
	assert.Equal(t, domain.ProbeNotFound, r.Err.Kind)
	assert.Equal(t, PromptConfirmDelete, r.Prompt)
	assert.Equal(t, PromptNone, s.Prompt)
}

func TestPromptSurvivesRefresh(t *testing.T) {
	n := newNav(homeFixture(t))
	s := open(t, n, "/home/user")
	s, _ = n.Apply(ctx, s, cmd(domain.CmdGoToPath))
	s = typeText(t, n, s, "Doc")

	s, r := n.Apply(ctx, s, cmd(domain.CmdRefresh))
	require.Equal(t, ResultRefreshed, r.Kind)
	assert.Equal(t, PromptPath, s.Prompt)
	assert.Equal(t, "/home/user/Doc", s.PromptText)

	// a new directory closes it
	s, _ = n.Apply(ctx, s, cmd(domain.CmdGoUp))
	assert.Equal(t, PromptNone, s.Prompt)
	assert.Empty(t, s.PromptText)
}
