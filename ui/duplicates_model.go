package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/victorhqc/photos-manager/media"
)

// DeletionCompleteMsg reports the outcome of deleting the selected files
type DeletionCompleteMsg struct {
	Deleted []string
	Err     error
}

// reviewGroup is a duplicate group plus the user's selection
type reviewGroup struct {
	Hash     string
	Size     int64
	Files    []string
	Selected []bool
}

// DuplicatesModel lets the user pick which copies of duplicate photos to delete.
type DuplicatesModel struct {
	groups       []reviewGroup
	currentGroup int
	currentFile  int

	confirming bool
	pending    []string

	deleted int
	freed   int64
	lastErr error

	keys     reviewKeyMap
	help     help.Model
	quitting bool
}

// NewDuplicatesModel creates a review model for the given groups
func NewDuplicatesModel(groups []media.DuplicateGroup) DuplicatesModel {
	rg := make([]reviewGroup, 0, len(groups))
	for _, g := range groups {
		files := make([]string, len(g.Paths))
		copy(files, g.Paths)
		rg = append(rg, reviewGroup{
			Hash:     g.Hash,
			Size:     g.Size,
			Files:    files,
			Selected: make([]bool, len(files)),
		})
	}

	return DuplicatesModel{
		groups: rg,
		keys:   newReviewKeyMap(),
		help:   help.New(),
	}
}

// Deleted returns how many files were removed and how many bytes that freed
func (m DuplicatesModel) Deleted() (int, int64) { return m.deleted, m.freed }

// Init implements tea.Model
func (m DuplicatesModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m DuplicatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirming {
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case DeletionCompleteMsg:
		m.applyDeletion(msg)
		if len(m.groups) == 0 {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m DuplicatesModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	if len(m.groups) == 0 {
		return m, nil
	}
	group := &m.groups[m.currentGroup]

	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.currentFile > 0 {
			m.currentFile--
		}

	case key.Matches(msg, m.keys.Down):
		if m.currentFile < len(group.Files)-1 {
			m.currentFile++
		}

	case key.Matches(msg, m.keys.PrevGroup):
		if m.currentGroup > 0 {
			m.currentGroup--
			m.currentFile = 0
		}

	case key.Matches(msg, m.keys.NextGroup):
		if m.currentGroup < len(m.groups)-1 {
			m.currentGroup++
			m.currentFile = 0
		}

	case key.Matches(msg, m.keys.Toggle):
		group.Selected[m.currentFile] = !group.Selected[m.currentFile]

	case key.Matches(msg, m.keys.KeepFirst):
		for i := range group.Selected {
			group.Selected[i] = i > 0
		}

	case key.Matches(msg, m.keys.Clear):
		for i := range group.Selected {
			group.Selected[i] = false
		}

	case key.Matches(msg, m.keys.Delete):
		m.pending = m.selectedFiles()
		m.confirming = len(m.pending) > 0
	}

	return m, nil
}

func (m DuplicatesModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		return m, deleteFiles(m.pending)
	case "n", "N", "esc", "ctrl+c":
		m.confirming = false
		m.pending = nil
	}
	return m, nil
}

// selectedFiles collects the selection across every group
func (m DuplicatesModel) selectedFiles() []string {
	var files []string
	for _, g := range m.groups {
		for i, sel := range g.Selected {
			if sel {
				files = append(files, g.Files[i])
			}
		}
	}
	return files
}

// deleteFiles removes files in order and stops at the first failure
func deleteFiles(files []string) tea.Cmd {
	return func() tea.Msg {
		deleted := make([]string, 0, len(files))
		for _, f := range files {
			if err := os.Remove(f); err != nil {
				return DeletionCompleteMsg{Deleted: deleted, Err: err}
			}
			deleted = append(deleted, f)
		}
		return DeletionCompleteMsg{Deleted: deleted}
	}
}

func (m *DuplicatesModel) applyDeletion(msg DeletionCompleteMsg) {
	m.lastErr = msg.Err
	m.pending = nil

	gone := make(map[string]bool, len(msg.Deleted))
	for _, f := range msg.Deleted {
		gone[f] = true
	}

	kept := m.groups[:0]
	for _, g := range m.groups {
		var files []string
		var selected []bool
		for i, f := range g.Files {
			if gone[f] {
				m.deleted++
				m.freed += g.Size
				continue
			}
			files = append(files, f)
			selected = append(selected, g.Selected[i])
		}
		if len(files) > 1 {
			kept = append(kept, reviewGroup{Hash: g.Hash, Size: g.Size, Files: files, Selected: selected})
		}
	}
	m.groups = kept

	if m.currentGroup >= len(m.groups) {
		m.currentGroup = max(len(m.groups)-1, 0)
	}
	if len(m.groups) > 0 && m.currentFile >= len(m.groups[m.currentGroup].Files) {
		m.currentFile = len(m.groups[m.currentGroup].Files) - 1
	}
}

// View implements tea.Model
func (m DuplicatesModel) View() string {
	if m.quitting {
		return fmt.Sprintf("Deleted %d file(s), freed %s\n", m.deleted, humanize.Bytes(uint64(m.freed)))
	}
	if len(m.groups) == 0 {
		return SuccessStyle.MarginTop(1).MarginLeft(2).Render("✅ No duplicates left. Press 'q' to quit.")
	}
	if m.confirming {
		return m.viewConfirm()
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("Duplicate photos (group %d of %d)", m.currentGroup+1, len(m.groups))))
	b.WriteString("\n")

	group := m.groups[m.currentGroup]
	b.WriteString(InfoStyle.Render(fmt.Sprintf("CRC32 %s · %s each · %d copies", group.Hash, humanize.Bytes(uint64(group.Size)), len(group.Files))))
	b.WriteString("\n\n")

	for i, f := range group.Files {
		mark := "[ ]"
		if group.Selected[i] {
			mark = "[x]"
		}
		name := filepath.Base(f)
		if group.Selected[i] {
			name = SelectedStyle.Render(name)
		}
		if i == m.currentFile {
			name = CursorStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s %s  %s\n", mark, name, InfoStyle.Render(filepath.Dir(f)))
	}

	if m.lastErr != nil {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render("❌ " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m DuplicatesModel) viewConfirm() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("⚠️  Confirm deletion"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Delete %d file(s)?\n\n", len(m.pending))
	for _, f := range m.pending {
		fmt.Fprintf(&b, "  • %s\n", f)
	}
	b.WriteString("\n")
	b.WriteString(ErrorStyle.Render("This cannot be undone."))
	b.WriteString("\n\nPress 'y' to confirm, 'n' to cancel")
	return b.String()
}
